package gating

import (
	"encoding/json"
	"errors"
	"net/http"

	"tapgate/gating/application"
	"tapgate/gating/domain"
)

type apiResponse struct {
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, apiResponse{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Error: msg})
}

// statusForError traduz erros de colaborador. Nunca recebe negações.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownSubject):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageUnavailable), errors.Is(err, application.ErrNoSlot):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func statusForReason(r domain.DenyReason) int {
	switch r {
	case domain.ReasonDailyLimitReached:
		return http.StatusTooManyRequests
	case domain.ReasonAlreadyTapped:
		return http.StatusConflict
	case domain.ReasonNotEligible:
		return http.StatusForbidden
	default:
		return http.StatusOK
	}
}

var reasonMessages = map[domain.DenyReason]string{
	domain.ReasonDailyLimitReached: "daily limit reached",
	domain.ReasonAlreadyTapped:     "already tapped",
	domain.ReasonNotEligible:       "messaging requires a mutual tap or a premium plan",
}

type decisionResponse struct {
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason,omitempty"`
	BecameMutual  bool   `json:"became_mutual,omitempty"`
	InteractionID string `json:"interaction_id,omitempty"`
	Count         int    `json:"count"`
	Remaining     int    `json:"remaining"`
}

func writeDecision(w http.ResponseWriter, dec domain.Decision) {
	body := decisionResponse{
		Allowed:       dec.Allowed,
		Reason:        string(dec.Reason),
		BecameMutual:  dec.BecameMutual,
		InteractionID: string(dec.InteractionID),
		Count:         dec.Count,
		Remaining:     dec.Remaining,
	}
	if dec.Allowed {
		writeData(w, body)
		return
	}
	writeJSON(w, statusForReason(dec.Reason), apiResponse{
		Data:   body,
		Error:  reasonMessages[dec.Reason],
		Reason: string(dec.Reason),
	})
}
