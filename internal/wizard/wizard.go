// Package wizard implements the five-step quote flow as an explicit state machine.
package wizard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mcabrera/teamquote/internal/quote"
	"github.com/mcabrera/teamquote/internal/types"
)

// Step identifies a wizard state. Steps advance strictly forward; StepReview
// is terminal.
type Step int

// Wizard steps in order.
const (
	StepTeamSize Step = iota + 1
	StepRoles
	StepWorkspace
	StepSummary
	StepReview
)

// ValidationError blocks a step transition and names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ProgressStore persists step payloads under one quote id. The first upsert
// allocates the id; later upserts must merge their payload into the
// existing record, never overwrite it, since each step supplies disjoint
// fields.
type ProgressStore interface {
	UpsertStep(ctx context.Context, quoteID uuid.UUID, step int, payload map[string]any) (uuid.UUID, error)
}

// Computer runs the quote computation. *quote.Engine satisfies it.
type Computer interface {
	Compute(ctx context.Context, req quote.ComputeRequest) *types.Quote
}

// QuoteStore persists the finished quote document.
type QuoteStore interface {
	SaveQuote(ctx context.Context, q *types.Quote) error
}

// Wizard carries the validated state of one quote-building session.
// Abandoning it at any step leaves the persisted progress in place.
type Wizard struct {
	store           Store
	log             *zap.SugaredLogger
	defaultCurrency string

	quoteID     uuid.UUID
	currentStep Step

	memberCount int
	sameRoles   bool
	industry    string
	roles       []types.RoleRequirement
	result      *types.Quote
}

// Store bundles the wizard's external collaborators.
type Store struct {
	Progress ProgressStore
	Quotes   QuoteStore
	Engine   Computer
}

// New creates a wizard at step one. defaultCurrency is used when Compute is
// called without an explicit currency; it typically comes from geolocation
// and is display-only.
func New(store Store, defaultCurrency string, log *zap.SugaredLogger) *Wizard {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &Wizard{
		store:           store,
		log:             log,
		defaultCurrency: defaultCurrency,
		currentStep:     StepTeamSize,
	}
}

// QuoteID returns the persisted quote id, or uuid.Nil before the first save.
func (w *Wizard) QuoteID() uuid.UUID { return w.quoteID }

// CurrentStep returns the step the wizard is waiting on.
func (w *Wizard) CurrentStep() Step { return w.currentStep }

// SameRoles reports the same-role decision made (or auto-made) at step one.
func (w *Wizard) SameRoles() bool { return w.sameRoles }

// Result returns the computed quote, or nil before the summary step.
func (w *Wizard) Result() *types.Quote { return w.result }

// SubmitTeamSize handles step one. A team of one needs no same-role
// decision: sameRoles is set automatically and the wizard advances without
// prompting. Larger teams must decide explicitly, so sameRoles is a pointer
// and nil blocks the transition.
func (w *Wizard) SubmitTeamSize(ctx context.Context, memberCount int, sameRoles *bool) error {
	if err := w.requireStep(StepTeamSize); err != nil {
		return err
	}
	if memberCount < 1 {
		return &ValidationError{Field: "member_count", Message: "must be at least 1"}
	}

	if memberCount == 1 {
		w.sameRoles = true
	} else {
		if sameRoles == nil {
			return &ValidationError{Field: "same_roles", Message: "a same-role or different-roles decision is required"}
		}
		w.sameRoles = *sameRoles
	}
	w.memberCount = memberCount

	w.persist(ctx, int(StepTeamSize), map[string]any{
		"member_count": w.memberCount,
		"same_roles":   w.sameRoles,
	})
	w.currentStep = StepRoles
	return nil
}

// SubmitRoles handles step two. Exactly one role requirement per team
// member; with sameRoles, one completed role propagates its definition to
// the rest, otherwise every role must be completed individually. Every role
// needs a non-empty title and description to pass the gate.
func (w *Wizard) SubmitRoles(ctx context.Context, industry string, roles []types.RoleRequirement) error {
	if err := w.requireStep(StepRoles); err != nil {
		return err
	}
	if len(roles) != w.memberCount {
		return &ValidationError{
			Field:   "roles",
			Message: fmt.Sprintf("expected %d role requirements, got %d", w.memberCount, len(roles)),
		}
	}

	if w.sameRoles {
		template := firstCompleted(roles)
		if template == nil {
			return &ValidationError{Field: "roles", Message: "at least one role must be completed"}
		}
		for i := range roles {
			if !roles[i].Completed {
				roles[i].Title = template.Title
				roles[i].Description = template.Description
				roles[i].ExperienceLevel = template.ExperienceLevel
				roles[i].Completed = true
			}
		}
	}

	for i := range roles {
		if !roles[i].Completed {
			return &ValidationError{Field: roleField(i, "completed"), Message: "role is not completed"}
		}
		if roles[i].Title == "" {
			return &ValidationError{Field: roleField(i, "title"), Message: "title is required"}
		}
		if roles[i].Description == "" {
			return &ValidationError{Field: roleField(i, "description"), Message: "description is required"}
		}
		if !roles[i].ExperienceLevel.Valid() {
			return &ValidationError{Field: roleField(i, "experience_level"), Message: "experience level must be entry, mid or senior"}
		}
		if roles[i].ID == "" {
			roles[i].ID = uuid.NewString()
		}
	}

	w.industry = industry
	w.roles = roles
	w.persist(ctx, int(StepRoles), map[string]any{
		"industry": industry,
		"roles":    roles,
	})
	w.currentStep = StepWorkspace
	return nil
}

// SubmitWorkspaces handles step three. Every role requirement must be
// assigned one of the three workspace tiers before the quote can be
// computed.
func (w *Wizard) SubmitWorkspaces(ctx context.Context, workspaces map[string]types.WorkspaceType) error {
	if err := w.requireStep(StepWorkspace); err != nil {
		return err
	}

	for i := range w.roles {
		ws, ok := workspaces[w.roles[i].ID]
		if !ok || !ws.Valid() {
			return &ValidationError{Field: roleField(i, "workspace_type"), Message: "a workspace type is required"}
		}
		w.roles[i].WorkspaceType = ws
	}

	w.persist(ctx, int(StepWorkspace), map[string]any{
		"workspaces": workspaces,
	})
	w.currentStep = StepSummary
	return nil
}

// Compute runs the engine once all roles carry a workspace (the step 3 to 4
// transition). currencyCode may be empty, in which case the session default
// applies. The computed quote is held for review and persisted as the step
// four payload.
func (w *Wizard) Compute(ctx context.Context, currencyCode string) (*types.Quote, error) {
	if err := w.requireStep(StepSummary); err != nil {
		return nil, err
	}
	if currencyCode == "" {
		currencyCode = w.defaultCurrency
	}

	w.result = w.store.Engine.Compute(ctx, quote.ComputeRequest{
		QuoteID:      w.quoteID,
		MemberCount:  w.memberCount,
		Industry:     w.industry,
		Roles:        w.roles,
		CurrencyCode: currencyCode,
	})

	w.persist(ctx, int(StepSummary), map[string]any{
		"quote": w.result,
	})
	return w.result, nil
}

// Finalize is the user-triggered step four to five transition. Unlike the
// intermediate saves, a failure here is surfaced so the caller can offer a
// retry; the wizard stays at the summary step until the save lands.
func (w *Wizard) Finalize(ctx context.Context) (*types.Quote, error) {
	if err := w.requireStep(StepSummary); err != nil {
		return nil, err
	}
	if w.result == nil {
		return nil, &ValidationError{Field: "quote", Message: "the quote has not been computed yet"}
	}

	if err := w.store.Quotes.SaveQuote(ctx, w.result); err != nil {
		return nil, fmt.Errorf("failed to save final quote: %w", err)
	}

	w.persist(ctx, int(StepReview), map[string]any{
		"finalized": true,
	})
	w.currentStep = StepReview
	return w.result, nil
}

// requireStep guards transitions against out-of-order submissions.
func (w *Wizard) requireStep(expected Step) error {
	if w.currentStep != expected {
		return &ValidationError{
			Field:   "step",
			Message: fmt.Sprintf("wizard is at step %d, not step %d", w.currentStep, expected),
		}
	}
	return nil
}

// persist saves a step payload. Intermediate persistence is best effort: a
// failed save is logged and never blocks navigation. The quote id returned
// by the very first save is kept and attached to every later one.
func (w *Wizard) persist(ctx context.Context, step int, payload map[string]any) {
	if w.store.Progress == nil {
		return
	}
	id, err := w.store.Progress.UpsertStep(ctx, w.quoteID, step, payload)
	if err != nil {
		if w.log != nil {
			w.log.Warnw("failed to persist wizard progress", "step", step, "error", err)
		}
		return
	}
	if w.quoteID == uuid.Nil {
		w.quoteID = id
	}
}

// firstCompleted returns the first role marked completed, or nil.
func firstCompleted(roles []types.RoleRequirement) *types.RoleRequirement {
	for i := range roles {
		if roles[i].Completed {
			return &roles[i]
		}
	}
	return nil
}

// roleField formats a field path for per-role validation errors.
func roleField(index int, field string) string {
	return fmt.Sprintf("roles[%d].%s", index, field)
}
