// Package server provides the HTTP REST API for the team quoting service.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/mcabrera/teamquote/internal/currency"
	"github.com/mcabrera/teamquote/internal/pricing"
	"github.com/mcabrera/teamquote/internal/schemas"
	"github.com/mcabrera/teamquote/internal/types"
	"github.com/mcabrera/teamquote/internal/wizard"
)

// sessionRegistry tracks in-flight wizard sessions. A session lives from the
// first step submission until the quote is finalized or the process restarts;
// persisted progress in the database outlives it.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*wizard.Wizard
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[uuid.UUID]*wizard.Wizard)}
}

func (r *sessionRegistry) create(w *wizard.Wizard) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	r.sessions[id] = w
	r.mu.Unlock()
	return id
}

func (r *sessionRegistry) get(id uuid.UUID) *wizard.Wizard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

func (r *sessionRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// stepResponse is returned after every successful step submission.
type stepResponse struct {
	SessionID   uuid.UUID `json:"session_id"`
	QuoteID     uuid.UUID `json:"quote_id,omitempty"`
	CurrentStep int       `json:"current_step"`
}

// handleSubmitStep handles POST /wizard/steps/{step}. Step one opens a new
// session; later steps address an existing one via session_id.
func (s *Server) handleSubmitStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(r.PathValue("step"))
	if err != nil || !schemas.HasPayloadSchema(step) {
		s.errorResponse(w, http.StatusNotFound, "unknown wizard step")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var envelope struct {
		SessionID uuid.UUID       `json:"session_id"`
		Payload   json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(envelope.Payload) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "payload is required")
		return
	}

	if err := schemas.ValidateStepPayload(step, envelope.Payload); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var (
		sessionID uuid.UUID
		session   *wizard.Wizard
	)
	if step == int(wizard.StepTeamSize) && envelope.SessionID == uuid.Nil {
		session = s.newSession(r)
		sessionID = s.registry.create(session)
	} else {
		sessionID = envelope.SessionID
		session = s.registry.get(sessionID)
		if session == nil {
			err := &ErrSessionNotFound{QuoteID: sessionID}
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	if err := s.applyStep(r, session, step, envelope.Payload); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, stepResponse{
		SessionID:   sessionID,
		QuoteID:     session.QuoteID(),
		CurrentStep: int(session.CurrentStep()),
	})
}

// applyStep dispatches a validated payload to the session.
func (s *Server) applyStep(r *http.Request, session *wizard.Wizard, step int, payload json.RawMessage) error {
	switch wizard.Step(step) {
	case wizard.StepTeamSize:
		var req struct {
			MemberCount int   `json:"member_count"`
			SameRoles   *bool `json:"same_roles"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			return &ErrValidation{Field: "payload", Message: "malformed team size payload"}
		}
		return session.SubmitTeamSize(r.Context(), req.MemberCount, req.SameRoles)

	case wizard.StepRoles:
		var req struct {
			Industry string                  `json:"industry"`
			Roles    []types.RoleRequirement `json:"roles"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			return &ErrValidation{Field: "payload", Message: "malformed roles payload"}
		}
		return session.SubmitRoles(r.Context(), req.Industry, req.Roles)

	case wizard.StepWorkspace:
		var req struct {
			Workspaces map[string]types.WorkspaceType `json:"workspaces"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			return &ErrValidation{Field: "payload", Message: "malformed workspace payload"}
		}
		return session.SubmitWorkspaces(r.Context(), req.Workspaces)
	}
	return &ErrValidation{Field: "step", Message: fmt.Sprintf("step %d takes no payload", step)}
}

// handleCompute handles POST /wizard/sessions/{session_id}/compute. The quote is
// computed against the requested currency, or the session default when the
// body omits one.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("session_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	session := s.registry.get(sessionID)
	if session == nil {
		nf := &ErrSessionNotFound{QuoteID: sessionID}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	var req struct {
		CurrencyCode string `json:"currency_code"`
	}
	if r.Body != nil {
		// An empty body selects the session default currency.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.CurrencyCode != "" && !pricing.SupportsCurrency(req.CurrencyCode) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported currency: %s", req.CurrencyCode))
		return
	}

	quote, err := session.Compute(r.Context(), req.CurrencyCode)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, quote)
}

// handleFinalize handles POST /wizard/sessions/{session_id}/finalize. A failed save
// keeps the session alive so the client can retry.
func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("session_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	session := s.registry.get(sessionID)
	if session == nil {
		nf := &ErrSessionNotFound{QuoteID: sessionID}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	quote, err := session.Finalize(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.registry.remove(sessionID)
	s.jsonResponse(w, http.StatusOK, quote)
}

// handleGetProgress handles GET /wizard/{quote_id}, returning persisted
// progress for an abandoned or in-flight session.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(r.PathValue("quote_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	progress, err := s.progress.GetProgress(r.Context(), quoteID)
	if err != nil {
		s.log.Errorw("failed to load wizard progress", "quote_id", quoteID, "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load wizard progress")
		return
	}
	if progress == nil {
		nf := &ErrQuoteNotFound{QuoteID: quoteID}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, progress)
}

// handleGetQuote handles GET /quotes/{id}.
func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	quote, err := s.quotes.GetQuote(r.Context(), quoteID)
	if err != nil {
		s.log.Errorw("failed to load quote", "quote_id", quoteID, "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	if quote == nil {
		nf := &ErrQuoteNotFound{QuoteID: quoteID}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, quote)
}

// handleListCurrencies handles GET /currencies.
func (s *Server) handleListCurrencies(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"currencies": currency.SupportedCurrencies(),
	})
}
