// Package handler is the thin HTTP layer for the scan API. It delegates
// to the scan service and keeps transport concerns out of the domain.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"luminary/internal/platform/middleware"
	"luminary/internal/scan/models"
	"luminary/pkg/platform/httputil"
)

// Service defines the scan operations the handler binds to.
type Service interface {
	StartScan(ctx context.Context, accountID string, targetID uuid.UUID) (*models.ScanRun, error)
	GetRun(ctx context.Context, accountID string, runID uuid.UUID) (*models.ScanRun, error)
	LatestRun(ctx context.Context, accountID string, targetID uuid.UUID) (*models.ScanRun, error)
}

// Handler wires scan endpoints to the scan service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a scan handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts scan endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/targets/{targetID}/scans", h.HandleStartScan)
	r.Get("/targets/{targetID}/scans/latest", h.HandleLatestRun)
	r.Get("/scans/{runID}", h.HandleGetRun)
}

// HandleStartScan handles POST /targets/{targetID}/scans.
func (h *Handler) HandleStartScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := middleware.AccountID(ctx)
	if accountID == "" {
		httputil.Unauthorized(w)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetID"))
	if err != nil {
		httputil.BadRequest(w, "invalid target id")
		return
	}

	start := time.Now()
	run, err := h.service.StartScan(ctx, accountID, targetID)
	if err != nil {
		h.logger.ErrorContext(ctx, "start scan failed",
			"account_id", accountID,
			"target_id", targetID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "scan accepted",
		"account_id", accountID,
		"target_id", targetID,
		"run_id", run.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusAccepted, fromRun(run, false))
}

// HandleGetRun handles GET /scans/{runID}.
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := middleware.AccountID(ctx)
	if accountID == "" {
		httputil.Unauthorized(w)
		return
	}

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		httputil.BadRequest(w, "invalid run id")
		return
	}

	run, err := h.service.GetRun(ctx, accountID, runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRun(run, wantFull(r)))
}

// HandleLatestRun handles GET /targets/{targetID}/scans/latest.
func (h *Handler) HandleLatestRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := middleware.AccountID(ctx)
	if accountID == "" {
		httputil.Unauthorized(w)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetID"))
	if err != nil {
		httputil.BadRequest(w, "invalid target id")
		return
	}

	run, err := h.service.LatestRun(ctx, accountID, targetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRun(run, wantFull(r)))
}

func wantFull(r *http.Request) bool {
	return r.URL.Query().Get("full") == "true"
}
