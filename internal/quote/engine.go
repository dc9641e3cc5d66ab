// Package quote orchestrates candidate matching and pricing into a finished quote.
package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mcabrera/teamquote/internal/pool"
	"github.com/mcabrera/teamquote/internal/pricing"
	"github.com/mcabrera/teamquote/internal/ranking"
	"github.com/mcabrera/teamquote/internal/recommend"
	"github.com/mcabrera/teamquote/internal/types"
)

// defaultFetchTimeout bounds each role's pool fetch.
const defaultFetchTimeout = 15 * time.Second

// ComputeRequest carries everything the engine needs to build a quote.
type ComputeRequest struct {
	QuoteID      uuid.UUID
	MemberCount  int
	Industry     string
	Roles        []types.RoleRequirement
	CurrencyCode string
}

// Engine runs the full quote computation: per-role candidate matching in
// parallel, cross-role ranking, then pricing at a single frozen rate.
type Engine struct {
	provider     pool.Provider
	pricer       *pricing.Engine
	log          *zap.SugaredLogger
	fetchTimeout time.Duration
}

// NewEngine creates a quote engine. provider may be nil, in which case every
// role prices from the fallback salary table.
func NewEngine(provider pool.Provider, pricer *pricing.Engine, log *zap.SugaredLogger) *Engine {
	return &Engine{
		provider:     provider,
		pricer:       pricer,
		log:          log,
		fetchTimeout: defaultFetchTimeout,
	}
}

// Compute builds a quote for the requested roles.
//
// Candidate pools are fetched concurrently, one fetch per role, and the
// computation joins on all of them before aggregating. A failed or timed-out
// fetch degrades that one role to an empty recommendation set; it never
// aborts the other roles or the quote.
func (e *Engine) Compute(ctx context.Context, req ComputeRequest) *types.Quote {
	recommendations := make([]types.RoleRecommendations, len(req.Roles))

	g, gCtx := errgroup.WithContext(ctx)
	for i := range req.Roles {
		g.Go(func() error {
			recommendations[i] = e.recommendRole(gCtx, req.Roles[i], req.Industry)
			return nil
		})
	}
	// Workers only ever return nil; the join itself cannot fail.
	_ = g.Wait()

	inputs := make([]pricing.RoleInput, len(req.Roles))
	for i, role := range req.Roles {
		inputs[i] = pricing.RoleInput{
			Role:              role,
			PoolAverageSalary: recommendations[i].AverageSalary,
		}
	}
	costs, totals, rate := e.pricer.Price(inputs, req.CurrencyCode)

	return &types.Quote{
		ID:                 req.QuoteID,
		MemberCount:        req.MemberCount,
		Industry:           req.Industry,
		Roles:              costs,
		TotalStaffCost:     totals.StaffCost,
		TotalWorkspaceCost: totals.WorkspaceCost,
		TotalMonthlyCost:   totals.MonthlyCost,
		CurrencyCode:       req.CurrencyCode,
		CurrencyRate:       rate,
		Recommendations:    recommendations,
		RankedCandidates:   ranking.Rank(recommendations),
		CreatedAt:          time.Now().UTC(),
	}
}

// recommendRole fetches one role's candidate pool and matches it. Provider
// failure is logged and degrades to an empty pool.
func (e *Engine) recommendRole(ctx context.Context, role types.RoleRequirement, industry string) types.RoleRecommendations {
	var candidates []types.CandidateRecord
	if e.provider != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()

		var err error
		candidates, err = e.provider.Candidates(fetchCtx, role.Title, industry)
		if err != nil {
			if e.log != nil {
				e.log.Warnw("candidate pool unavailable, role degrades to empty",
					"role", role.Title, "error", err)
			}
			candidates = nil
		}
	}

	result := recommend.Recommend(recommend.Request{
		RoleTitle: role.Title,
		Level:     role.ExperienceLevel,
		Industry:  industry,
	}, candidates)
	result.RoleID = role.ID
	return result
}
