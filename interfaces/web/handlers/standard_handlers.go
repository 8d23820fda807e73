package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"exostandards/application"
	"exostandards/domain/contracts"
	"exostandards/interfaces/web/presenters"
	"exostandards/logging"
)

// StandardHandlers exposes standard runs and their stored results over HTTP.
type StandardHandlers struct {
	standard   application.SendReceiveLimitService
	compliance *application.TenantComplianceService
	presenter  *presenters.StandardPresenter
	runTimeout time.Duration
	logger     *logging.Logger
}

// NewStandardHandlers creates standard handlers. A zero runTimeout leaves runs bound only by the request.
func NewStandardHandlers(
	standard application.SendReceiveLimitService,
	compliance *application.TenantComplianceService,
	presenter *presenters.StandardPresenter,
	runTimeout time.Duration,
) *StandardHandlers {
	return &StandardHandlers{
		standard:   standard,
		compliance: compliance,
		presenter:  presenter,
		runTimeout: runTimeout,
		logger:     logging.Default().WithComponent("standard_handler"),
	}
}

// Mount registers the tenant scoped standard routes.
func (h *StandardHandlers) Mount(r chi.Router) {
	r.Route("/api/tenants/{tenant}", func(r chi.Router) {
		r.Post("/standards/send-receive-limit", h.RunSendReceiveLimit)
		r.Get("/logs", h.ListLogs)
		r.Get("/alerts", h.ListAlerts)
		r.Get("/compliance", h.GetCompliance)
	})
}

// RunSendReceiveLimit executes the send and receive limit standard for {tenant}.
func (h *StandardHandlers) RunSendReceiveLimit(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		WriteError(w, http.StatusBadRequest, "missing tenant")
		return
	}

	raw, err := decodeRawSettings(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	result := h.standard.RunRaw(ctx, tenant, raw)
	view := h.presenter.FormatRunResult(result)

	h.logger.Info(h.presenter.FormatOutcomeSummary(view),
		"tenant", tenant,
		"outcome", view.Outcome,
		"updated", view.Updated)

	WriteJSON(w, h.presenter.StatusCode(result), view)
}

// ListLogs returns recent log entries for {tenant}.
func (h *StandardHandlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		WriteError(w, http.StatusBadRequest, "missing tenant")
		return
	}

	entries, err := h.compliance.ListLogs(r.Context(), tenant, limitParam(r))
	if err != nil {
		h.logger.Error("Failed to list logs", "tenant", tenant, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}

	WriteJSON(w, http.StatusOK, h.presenter.FormatLogs(entries))
}

// ListAlerts returns recent alerts for {tenant}.
func (h *StandardHandlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		WriteError(w, http.StatusBadRequest, "missing tenant")
		return
	}

	alerts, err := h.compliance.ListAlerts(r.Context(), tenant, limitParam(r))
	if err != nil {
		h.logger.Error("Failed to list alerts", "tenant", tenant, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}

	WriteJSON(w, http.StatusOK, h.presenter.FormatAlerts(alerts))
}

// GetCompliance returns the stored compliance picture for {tenant}.
func (h *StandardHandlers) GetCompliance(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)

	data, err := h.compliance.GetTenantCompliance(r.Context(), tenant)
	if err != nil {
		if errors.Is(err, contracts.ErrTenantRequired) {
			WriteError(w, http.StatusBadRequest, "missing tenant")
			return
		}
		h.logger.Error("Failed to load compliance", "tenant", tenant, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to load compliance")
		return
	}

	WriteJSON(w, http.StatusOK, h.presenter.FormatCompliance(data))
}
