package model

import "time"

// Work modalities a posting can advertise. Free-form TEXT in the schema;
// these constants cover what the board's posting form offers.
const (
	ModalityOnSite = "Presencial"
	ModalityRemote = "Remoto"
	ModalityHybrid = "Híbrido"
)

// Job is a single vacancy on the board.
//
// The JSON tags are snake_case because the API exposes rows more or less
// as stored — the frontend reads `posted_at`, not `postedAt`. Salary is
// deliberately free text ("$450 - $550 + Comisiones"), not a number:
// community postings rarely fit a clean numeric range.
type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Salary       string    `json:"salary"`
	Modality     string    `json:"modality"`
	Requirements string    `json:"requirements"`
	Description  string    `json:"description"`
	PostedAt     time.Time `json:"posted_at"`
}
