package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/financasgo/backend/internal/metrics"
	"github.com/financasgo/backend/internal/projection"
	"github.com/financasgo/backend/internal/repository"
)

const simulationCacheTTL = time.Hour

// SimulationService runs financial projections. Results are memoized in the
// cache keyed by a hash of the input, since identical inputs always produce
// identical results.
type SimulationService interface {
	Investment(ctx context.Context, in projection.InvestmentInput) projection.InvestmentResult
	Financing(ctx context.Context, in projection.LoanInput) projection.LoanResult
	Retirement(ctx context.Context, in projection.RetirementInput) projection.RetirementResult
	Goal(ctx context.Context, in projection.GoalInput) projection.GoalResult
}

type simulationService struct {
	cache repository.Cache
}

// NewSimulationService creates a SimulationService. cache can be nil to
// compute every request.
func NewSimulationService(cache repository.Cache) SimulationService {
	return &simulationService{cache: cache}
}

func simulationKey(kind string, in any) string {
	raw, _ := json.Marshal(in)
	sum := sha256.Sum256(raw)
	return "sim:" + kind + ":" + hex.EncodeToString(sum[:])
}

// memoize returns the cached result for the input when present, otherwise
// computes and stores it. Cache failures fall through to computation.
func memoize[I, R any](ctx context.Context, cache repository.Cache, kind string, in I, fn func(I) R) R {
	if cache == nil {
		metrics.SimulationsTotal.WithLabelValues(kind, "computed").Inc()
		return fn(in)
	}

	key := simulationKey(kind, in)
	if raw, ok := cache.Get(ctx, key); ok {
		var out R
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			metrics.SimulationsTotal.WithLabelValues(kind, "cache").Inc()
			return out
		}
	}

	out := fn(in)
	metrics.SimulationsTotal.WithLabelValues(kind, "computed").Inc()
	if raw, err := json.Marshal(out); err == nil {
		if err := cache.Set(ctx, key, string(raw), simulationCacheTTL); err != nil {
			slog.Warn("simulation cache write failed", "kind", kind, "error", err)
		}
	}
	return out
}

func (s *simulationService) Investment(ctx context.Context, in projection.InvestmentInput) projection.InvestmentResult {
	return memoize(ctx, s.cache, "investment", in, projection.Investment)
}

func (s *simulationService) Financing(ctx context.Context, in projection.LoanInput) projection.LoanResult {
	return memoize(ctx, s.cache, "financing", in, projection.Loan)
}

func (s *simulationService) Retirement(ctx context.Context, in projection.RetirementInput) projection.RetirementResult {
	return memoize(ctx, s.cache, "retirement", in, projection.Retirement)
}

func (s *simulationService) Goal(ctx context.Context, in projection.GoalInput) projection.GoalResult {
	return memoize(ctx, s.cache, "goal", in, projection.Goal)
}
