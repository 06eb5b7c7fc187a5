package gating

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tapgate/gating/application"
	"tapgate/gating/domain"

	"github.com/rs/zerolog"
)

// Handlers traduz HTTP <-> Engine. O tier vem sempre do TierSource, nunca
// do cliente.
type Handlers struct {
	Engine application.Engine
	Tiers  domain.TierSource
	Logger zerolog.Logger
}

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// fail escreve a resposta de um erro de colaborador. 5xx vai para o log.
func (h Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", RequestIDFrom(r.Context())).
			Msg("request failed")
	}
	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		msg = "storage unavailable, try again"
	} else if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, msg)
}

// caller resolve o subject autenticado e seu tier.
func (h Handlers) caller(w http.ResponseWriter, r *http.Request) (domain.Subject, domain.Tier, bool) {
	subject, ok := SubjectFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return "", "", false
	}
	tier, err := h.Tiers.TierOf(r.Context(), subject)
	if err != nil {
		h.fail(w, r, err)
		return "", "", false
	}
	return subject, tier, true
}

type visibleRequest struct {
	CandidateCount int      `json:"candidate_count"`
	CandidateIDs   []string `json:"candidate_ids"`
}

type visibleResponse struct {
	VisibleCount int      `json:"visible_count"`
	HiddenCount  int      `json:"hidden_count"`
	VisibleIDs   []string `json:"visible_ids,omitempty"`
}

func (h Handlers) VisibleProfiles(w http.ResponseWriter, r *http.Request) {
	subject, tier, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req visibleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n := req.CandidateCount
	if req.CandidateIDs != nil {
		n = len(req.CandidateIDs)
	}

	dec, err := h.Engine.Decide(r.Context(), subject, domain.ViewProfiles(n), domain.DecisionContext{Tier: tier})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := visibleResponse{VisibleCount: dec.VisibleCount, HiddenCount: dec.HiddenCount}
	if req.CandidateIDs != nil {
		resp.VisibleIDs, _ = application.VisibleSlice(req.CandidateIDs, dec.VisibleCount)
	}
	writeData(w, resp)
}

type tapRequest struct {
	To   string `json:"to"`
	Kind string `json:"kind"`
}

func (h Handlers) SendTap(w http.ResponseWriter, r *http.Request) {
	subject, tier, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req tapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := domain.ParseInteractionKind(req.Kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	to := domain.Subject(req.To)
	if to != "" {
		if _, err := h.Tiers.TierOf(r.Context(), to); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	dec, err := h.Engine.Decide(r.Context(), subject, domain.SendSignal(to, kind), domain.DecisionContext{Tier: tier})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeDecision(w, dec)
}

type messageRequest struct {
	To string `json:"to"`
}

// MessageGate decide se o subject pode enviar uma mensagem agora e consome
// a cota. A entrega é do serviço de mensagens.
func (h Handlers) MessageGate(w http.ResponseWriter, r *http.Request) {
	subject, tier, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req messageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	to := domain.Subject(req.To)
	dctx := domain.DecisionContext{Tier: tier}
	if to != "" {
		rt, err := h.Tiers.TierOf(r.Context(), to)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		dctx.RecipientTier = rt
	}

	dec, err := h.Engine.Decide(r.Context(), subject, domain.SendMessage(to), dctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeDecision(w, dec)
}

type counterJSON struct {
	Kind      string `json:"kind"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

type usageResponse struct {
	Tier     string        `json:"tier"`
	Day      string        `json:"day"`
	Counters []counterJSON `json:"counters"`
}

func (h Handlers) Usage(w http.ResponseWriter, r *http.Request) {
	subject, tier, ok := h.caller(w, r)
	if !ok {
		return
	}
	u, err := h.Engine.Usage(r.Context(), subject, tier)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := usageResponse{Tier: string(u.Tier), Day: u.Day.String(), Counters: make([]counterJSON, 0, len(u.Counters))}
	for _, c := range u.Counters {
		resp.Counters = append(resp.Counters, counterJSON{
			Kind:      string(c.Kind),
			Used:      c.Used,
			Limit:     int(c.Limit),
			Remaining: c.Remaining,
		})
	}
	writeData(w, resp)
}

type interactionJSON struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
	At   string `json:"at"`
}

func (h Handlers) History(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items := h.Engine.History(r.Context(), subject, limit)
	out := make([]interactionJSON, 0, len(items))
	for _, in := range items {
		out = append(out, interactionJSON{
			ID:   string(in.ID),
			From: string(in.From),
			To:   string(in.To),
			Kind: string(in.Kind),
			At:   in.At.UTC().Format(time.RFC3339),
		})
	}
	writeData(w, out)
}

type likersResponse struct {
	Count    int      `json:"count"`
	Revealed bool     `json:"revealed"`
	Subjects []string `json:"subjects"`
}

func (h Handlers) Likers(w http.ResponseWriter, r *http.Request) {
	subject, tier, ok := h.caller(w, r)
	if !ok {
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.Engine.Likers(r.Context(), subject, tier, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := likersResponse{Count: res.Count, Revealed: res.Revealed, Subjects: make([]string, 0, len(res.Subjects))}
	for _, s := range res.Subjects {
		resp.Subjects = append(resp.Subjects, string(s))
	}
	writeData(w, resp)
}

func Health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, map[string]string{"status": "ok"})
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidAction)
	}
	return n, nil
}
