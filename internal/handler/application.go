package handler

import (
	"log/slog"
	"net/http"

	"github.com/bdec/jobboard/internal/auth"
	"github.com/bdec/jobboard/internal/service"
)

// ApplicationHandler exposes the application endpoints plus the admin
// stats view. Every route behind it runs RequireAuth; the admin-only ones
// additionally declare RequireRole(admin) in the router.
type ApplicationHandler struct {
	apps    *service.ApplicationService
	reports *service.ReportService
	logger  *slog.Logger
}

func NewApplicationHandler(apps *service.ApplicationService, reports *service.ReportService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, reports: reports, logger: logger}
}

type applyRequest struct {
	JobID int64 `json:"jobId" validate:"required"`
}

// HandleApply submits an application for the authenticated user.
//
// HTTP: POST /api/applications (RequireAuth)
// Responses: 201 | 400 conflict (already applied) | 404 (no such job)
//
// The applicant is always the token's identity — a body can't apply on
// someone else's behalf.
func (h *ApplicationHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var req applyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	app, err := h.apps.Apply(r.Context(), claims.UserID, req.JobID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "application submitted",
		"application": app,
	})
}

// HandleListMine lists the caller's applications with job context.
//
// HTTP: GET /api/applications/my (RequireAuth)
func (h *ApplicationHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	apps, err := h.apps.ListMine(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("listing own applications failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// HandleListAll lists every application for the dashboard.
//
// HTTP: GET /api/applications (RequireAuth + RequireRole(admin))
func (h *ApplicationHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	apps, err := h.apps.ListAll(r.Context())
	if err != nil {
		h.logger.Error("listing all applications failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// HandleStats returns the dashboard aggregates.
//
// HTTP: GET /api/applications/stats (RequireAuth + RequireRole(admin))
// Response: {"stats":{"users":N,"jobs":N,"applications":N},"recentApps":[...]}
func (h *ApplicationHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Stats(r.Context())
	if err != nil {
		h.logger.Error("building dashboard stats failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// HandleDelete removes one application.
//
// HTTP: DELETE /api/applications/{id} (RequireAuth + RequireRole(admin))
// Responses: 200 | 403 | 404
func (h *ApplicationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.apps.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "application deleted"})
}
