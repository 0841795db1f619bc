package handler

import (
	"net/http"
)

type dismissAlertRequest struct {
	AlertHash string `json:"alert_hash"`
}

// FinancialHealth returns the user's financial snapshot
func (h *Handler) FinancialHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.FinancialSnapshot(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Alerts returns the active alerts as a JSON array
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.Alerts(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *Handler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	var req dismissAlertRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.DismissAlert(r.Context(), userID(r), req.AlertHash); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Alert dismissed permanently.")
}

func (h *Handler) ResetAlerts(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetAlerts(r.Context(), userID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "All alerts have been reset.")
}

// Dashboard returns the summary for ?month=YYYY-MM, the current month by default
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Dashboard(r.Context(), userID(r), r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Advisor returns AI generated recommendations in markdown
func (h *Handler) Advisor(w http.ResponseWriter, r *http.Request) {
	advice, err := h.svc.Advice(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"advice": advice})
}
