package handler

import (
	"log/slog"
	"net/http"

	"github.com/bdec/jobboard/internal/model"
	"github.com/bdec/jobboard/internal/service"
)

// JobHandler exposes the vacancy endpoints. Listing is public; posting
// needs any authenticated identity; deleting needs the admin role, which
// the route declares via auth.RequireRole — nothing here checks roles.
type JobHandler struct {
	jobs   *service.JobService
	logger *slog.Logger
}

func NewJobHandler(jobs *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, logger: logger}
}

// HandleList returns all postings, newest first.
//
// HTTP: GET /api/jobs
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.List(r.Context())
	if err != nil {
		h.logger.Error("listing jobs failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

// jobRequest carries the posting form. Everything the schema marks NOT
// NULL without a default is required here; modality defaults to on-site
// and requirements may be empty.
type jobRequest struct {
	Title        string `json:"title" validate:"required"`
	Company      string `json:"company" validate:"required"`
	Location     string `json:"location" validate:"required"`
	Category     string `json:"category" validate:"required"`
	Salary       string `json:"salary" validate:"required"`
	Modality     string `json:"modality"`
	Requirements string `json:"requirements"`
	Description  string `json:"description" validate:"required"`
}

// HandleCreate stores a new posting.
//
// HTTP: POST /api/jobs (RequireAuth)
// Responses: 201 created Job | 400 validation_error
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	job, err := h.jobs.Create(r.Context(), &model.Job{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Category:     req.Category,
		Salary:       req.Salary,
		Modality:     req.Modality,
		Requirements: req.Requirements,
		Description:  req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// HandleDelete removes a posting and its applications.
//
// HTTP: DELETE /api/jobs/{id} (RequireAuth + RequireRole(admin))
// Responses: 200 | 403 | 404
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.jobs.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "job deleted"})
}
