package model

import "time"

// StatusPending is the initial (and currently only) application status.
// The column exists so an admin review flow can grow into it later.
const StatusPending = "pending"

// Application links a user to a job they applied for.
// The (UserID, JobID) pair is UNIQUE — a user applies to a job at most once.
type Application struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	JobID     int64     `json:"job_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

// UserApplication is an application joined with the job columns the
// "my applications" view displays.
type UserApplication struct {
	Application
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Category string `json:"category"`
}

// AdminApplication is an application joined with job and user display
// fields for the admin dashboard listing.
type AdminApplication struct {
	Application
	JobTitle  string `json:"job_title"`
	Company   string `json:"company"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// DashboardStats holds the total row counts shown on the admin dashboard.
type DashboardStats struct {
	Users        int64 `json:"users"`
	Jobs         int64 `json:"jobs"`
	Applications int64 `json:"applications"`
}

// RecentApplication is one row of the dashboard's recent-activity feed.
type RecentApplication struct {
	AppliedAt time.Time `json:"applied_at"`
	UserName  string    `json:"user_name"`
	JobTitle  string    `json:"job_title"`
}

// DashboardReport is the full payload of the admin stats endpoint.
type DashboardReport struct {
	Stats      DashboardStats      `json:"stats"`
	RecentApps []RecentApplication `json:"recentApps"`
}
