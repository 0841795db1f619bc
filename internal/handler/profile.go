package handler

import (
	"encoding/json"
	"net/http"
)

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type profileResponse struct {
	Profile any `json:"profile"`
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Profile(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: user})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.svc.UpdateProfile(r.Context(), userID(r), req.Username, req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: user})
}

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings takes a JSON object of key-value pairs. String values are
// stored as-is, anything else as its JSON text.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]json.RawMessage
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	values := make(map[string]string, len(req))
	for key, raw := range req {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw)
		}
		values[key] = s
	}
	if err := h.svc.UpdateSettings(r.Context(), userID(r), values); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Settings updated.")
}
