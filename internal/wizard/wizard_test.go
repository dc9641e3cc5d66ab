package wizard

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mcabrera/teamquote/internal/currency"
	"github.com/mcabrera/teamquote/internal/pricing"
	"github.com/mcabrera/teamquote/internal/quote"
	"github.com/mcabrera/teamquote/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryProgress records upserts and allocates a quote id on first save.
type memoryProgress struct {
	id      uuid.UUID
	saves   []int
	merged  map[string]any
	failAll bool
}

func (m *memoryProgress) UpsertStep(_ context.Context, quoteID uuid.UUID, step int, payload map[string]any) (uuid.UUID, error) {
	if m.failAll {
		return uuid.Nil, fmt.Errorf("progress store down")
	}
	if quoteID == uuid.Nil {
		if m.id == uuid.Nil {
			m.id = uuid.New()
		}
	} else {
		m.id = quoteID
	}
	if m.merged == nil {
		m.merged = make(map[string]any)
	}
	for k, v := range payload {
		m.merged[k] = v
	}
	m.saves = append(m.saves, step)
	return m.id, nil
}

// memoryQuotes stores finalized quotes and can fail on demand.
type memoryQuotes struct {
	saved    []*types.Quote
	failOnce bool
}

func (m *memoryQuotes) SaveQuote(_ context.Context, q *types.Quote) error {
	if m.failOnce {
		m.failOnce = false
		return fmt.Errorf("database unavailable")
	}
	m.saved = append(m.saved, q)
	return nil
}

func newTestWizard(progress *memoryProgress, quotes *memoryQuotes) *Wizard {
	engine := quote.NewEngine(nil, pricing.NewEngine(currency.NewConverter(nil, nil)), nil)
	return New(Store{Progress: progress, Quotes: quotes, Engine: engine}, "PHP", nil)
}

func boolPtr(b bool) *bool { return &b }

func completedRole(title string) types.RoleRequirement {
	return types.RoleRequirement{
		Title:           title,
		Description:     "Builds and maintains " + title + " deliverables",
		ExperienceLevel: types.LevelMid,
		Completed:       true,
	}
}

// runToWorkspace drives a 2-member wizard through steps one and two.
func runToWorkspace(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.SubmitTeamSize(context.Background(), 2, boolPtr(false)))
	require.NoError(t, w.SubmitRoles(context.Background(), "Real Estate", []types.RoleRequirement{
		completedRole("Web Developer"),
		completedRole("Accountant"),
	}))
}

func TestSubmitTeamSize_SoloTeamAutoDecides(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})

	// No same-roles answer supplied, none required for a team of one
	require.NoError(t, w.SubmitTeamSize(context.Background(), 1, nil))

	assert.Equal(t, StepRoles, w.CurrentStep())
	assert.True(t, w.SameRoles())
}

func TestSubmitTeamSize_LargerTeamRequiresDecision(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})

	err := w.SubmitTeamSize(context.Background(), 3, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "same_roles", verr.Field)
	assert.Equal(t, StepTeamSize, w.CurrentStep())

	require.NoError(t, w.SubmitTeamSize(context.Background(), 3, boolPtr(true)))
	assert.Equal(t, StepRoles, w.CurrentStep())
}

func TestSubmitTeamSize_RejectsZeroMembers(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})
	err := w.SubmitTeamSize(context.Background(), 0, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "member_count", verr.Field)
}

func TestSubmitRoles_RequiresTitleAndDescription(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})
	require.NoError(t, w.SubmitTeamSize(context.Background(), 1, nil))

	err := w.SubmitRoles(context.Background(), "", []types.RoleRequirement{
		{Title: "Web Developer", ExperienceLevel: types.LevelMid, Completed: true},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "roles[0].description", verr.Field)
	assert.Equal(t, StepRoles, w.CurrentStep())
}

func TestSubmitRoles_SameRolePropagation(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})
	require.NoError(t, w.SubmitTeamSize(context.Background(), 3, boolPtr(true)))

	roles := []types.RoleRequirement{
		completedRole("Web Developer"),
		{}, // incomplete, filled from the completed one
		{},
	}
	require.NoError(t, w.SubmitRoles(context.Background(), "", roles))
	assert.Equal(t, StepWorkspace, w.CurrentStep())
}

func TestSubmitRoles_SameRolesNeedsOneCompleted(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})
	require.NoError(t, w.SubmitTeamSize(context.Background(), 2, boolPtr(true)))

	err := w.SubmitRoles(context.Background(), "", []types.RoleRequirement{{}, {}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSubmitRoles_DifferentRolesAllMustBeCompleted(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})
	require.NoError(t, w.SubmitTeamSize(context.Background(), 2, boolPtr(false)))

	err := w.SubmitRoles(context.Background(), "", []types.RoleRequirement{
		completedRole("Web Developer"),
		{Title: "Accountant", Description: "Handles the books", ExperienceLevel: types.LevelMid},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "roles[1].completed", verr.Field)
}

func TestSubmitRoles_CountMustMatchTeamSize(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})
	require.NoError(t, w.SubmitTeamSize(context.Background(), 2, boolPtr(false)))

	err := w.SubmitRoles(context.Background(), "", []types.RoleRequirement{completedRole("Web Developer")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "roles", verr.Field)
}

func TestSubmitWorkspaces_GateAndAdvance(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})
	runToWorkspace(t, w)

	// Missing assignment for one role blocks the step
	err := w.SubmitWorkspaces(context.Background(), map[string]types.WorkspaceType{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepWorkspace, w.CurrentStep())

	// Role ids were assigned during SubmitRoles
	assignments := make(map[string]types.WorkspaceType)
	for _, r := range w.roles {
		assignments[r.ID] = types.WorkspaceWFH
	}
	require.NoError(t, w.SubmitWorkspaces(context.Background(), assignments))
	assert.Equal(t, StepSummary, w.CurrentStep())
}

func TestComputeAndFinalize(t *testing.T) {
	progress := &memoryProgress{}
	quotes := &memoryQuotes{}
	w := newTestWizard(progress, quotes)
	runToWorkspace(t, w)
	assignments := make(map[string]types.WorkspaceType)
	for _, r := range w.roles {
		assignments[r.ID] = types.WorkspaceOffice
	}
	require.NoError(t, w.SubmitWorkspaces(context.Background(), assignments))

	q, err := w.Compute(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "PHP", q.CurrencyCode)
	assert.Greater(t, q.TotalMonthlyCost, 0.0)

	final, err := w.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, q, final)
	assert.Equal(t, StepReview, w.CurrentStep())
	require.Len(t, quotes.saved, 1)
}

func TestFinalize_SurfacesSaveFailureAndAllowsRetry(t *testing.T) {
	progress := &memoryProgress{}
	quotes := &memoryQuotes{failOnce: true}
	w := newTestWizard(progress, quotes)
	runToWorkspace(t, w)
	assignments := make(map[string]types.WorkspaceType)
	for _, r := range w.roles {
		assignments[r.ID] = types.WorkspaceWFH
	}
	require.NoError(t, w.SubmitWorkspaces(context.Background(), assignments))
	_, err := w.Compute(context.Background(), "PHP")
	require.NoError(t, err)

	// First save fails and is surfaced; the wizard does not advance
	_, err = w.Finalize(context.Background())
	require.Error(t, err)
	assert.Equal(t, StepSummary, w.CurrentStep())

	// Retry succeeds
	_, err = w.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepReview, w.CurrentStep())
}

func TestWizard_QuoteIDAllocatedOnceAndReused(t *testing.T) {
	progress := &memoryProgress{}
	w := newTestWizard(progress, &memoryQuotes{})

	require.NoError(t, w.SubmitTeamSize(context.Background(), 1, nil))
	id := w.QuoteID()
	require.NotEqual(t, uuid.Nil, id)

	require.NoError(t, w.SubmitRoles(context.Background(), "", []types.RoleRequirement{completedRole("Web Developer")}))
	assert.Equal(t, id, w.QuoteID())

	// Payloads from both steps merged under the one id
	assert.Contains(t, progress.merged, "member_count")
	assert.Contains(t, progress.merged, "roles")
}

func TestWizard_ProgressFailureDoesNotBlockNavigation(t *testing.T) {
	w := newTestWizard(&memoryProgress{failAll: true}, &memoryQuotes{})

	require.NoError(t, w.SubmitTeamSize(context.Background(), 1, nil))
	assert.Equal(t, StepRoles, w.CurrentStep())
	// No quote id could be allocated, navigation continued regardless
	assert.Equal(t, uuid.Nil, w.QuoteID())
}

func TestWizard_OutOfOrderSubmissions(t *testing.T) {
	w := newTestWizard(&memoryProgress{}, &memoryQuotes{})

	var verr *ValidationError
	require.ErrorAs(t, w.SubmitRoles(context.Background(), "", nil), &verr)
	_, err := w.Compute(context.Background(), "PHP")
	require.ErrorAs(t, err, &verr)
	_, err = w.Finalize(context.Background())
	require.ErrorAs(t, err, &verr)
}
