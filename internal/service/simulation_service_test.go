package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/financasgo/backend/internal/projection"
)

// ---------------------------------------------------------------------------
// Mock Cache
// ---------------------------------------------------------------------------

type mockCache struct {
	getFunc   func(ctx context.Context, key string) (string, bool)
	setFunc   func(ctx context.Context, key, value string, ttl time.Duration) error
	setNXFunc func(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

func (m *mockCache) Get(ctx context.Context, key string) (string, bool) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return "", false
}
func (m *mockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, ttl)
	}
	return nil
}
func (m *mockCache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if m.setNXFunc != nil {
		return m.setNXFunc(ctx, key, value, ttl)
	}
	return true, nil
}

// ---------------------------------------------------------------------------
// SimulationService tests
// ---------------------------------------------------------------------------

func TestSimulationService_Investment_NoCache(t *testing.T) {
	svc := NewSimulationService(nil)

	got := svc.Investment(context.Background(), projection.InvestmentInput{
		InitialAmount: 1000, MonthlyContribution: 0, AnnualRatePercent: 0, Years: 1,
	})
	if got.FinalAmount != 1000 {
		t.Errorf("FinalAmount = %.2f, want 1000", got.FinalAmount)
	}
}

func TestSimulationService_Investment_StoresOnMiss(t *testing.T) {
	var storedKey, storedValue string
	cache := &mockCache{
		setFunc: func(ctx context.Context, key, value string, ttl time.Duration) error {
			storedKey = key
			storedValue = value
			return nil
		},
	}
	svc := NewSimulationService(cache)

	got := svc.Investment(context.Background(), projection.InvestmentInput{
		InitialAmount: 1000, Years: 1,
	})

	if storedKey == "" {
		t.Fatal("expected a cache write on miss")
	}
	var cached projection.InvestmentResult
	if err := json.Unmarshal([]byte(storedValue), &cached); err != nil {
		t.Fatalf("stored value is not a result: %v", err)
	}
	if cached.FinalAmount != got.FinalAmount {
		t.Errorf("cached %.2f, computed %.2f", cached.FinalAmount, got.FinalAmount)
	}
}

func TestSimulationService_Investment_ReturnsCachedValue(t *testing.T) {
	// A sentinel value that the computation would never produce proves the
	// cached result was used.
	sentinel := projection.InvestmentResult{FinalAmount: -1}
	raw, _ := json.Marshal(sentinel)
	cache := &mockCache{
		getFunc: func(ctx context.Context, key string) (string, bool) {
			return string(raw), true
		},
	}
	svc := NewSimulationService(cache)

	got := svc.Investment(context.Background(), projection.InvestmentInput{InitialAmount: 1000, Years: 1})
	if got.FinalAmount != -1 {
		t.Errorf("FinalAmount = %.2f, want cached sentinel -1", got.FinalAmount)
	}
}

func TestSimulationService_Investment_MalformedCacheRecomputes(t *testing.T) {
	cache := &mockCache{
		getFunc: func(ctx context.Context, key string) (string, bool) {
			return "{not json", true
		},
	}
	svc := NewSimulationService(cache)

	got := svc.Investment(context.Background(), projection.InvestmentInput{InitialAmount: 1000, Years: 1})
	if got.FinalAmount != 1000 {
		t.Errorf("FinalAmount = %.2f, want recomputed 1000", got.FinalAmount)
	}
}

func TestSimulationService_KeyVariesByKindAndInput(t *testing.T) {
	in := projection.GoalInput{TargetAmount: 100, MonthlyContribution: 5}

	k1 := simulationKey("goal", in)
	k2 := simulationKey("investment", in)
	if k1 == k2 {
		t.Error("different kinds must not share cache keys")
	}

	in.TargetAmount = 200
	if simulationKey("goal", in) == k1 {
		t.Error("different inputs must not share cache keys")
	}
}

func TestSimulationService_Financing(t *testing.T) {
	svc := NewSimulationService(nil)

	got := svc.Financing(context.Background(), projection.LoanInput{
		AssetPrice: 100000, DownPayment: 20000, AnnualRatePercent: 0, Years: 10,
	})
	if got.FinancedAmount != 80000 {
		t.Errorf("FinancedAmount = %.2f, want 80000", got.FinancedAmount)
	}
	if got.MonthlyPayment < 666 || got.MonthlyPayment > 667 {
		t.Errorf("MonthlyPayment = %.2f, want 80000/120", got.MonthlyPayment)
	}
}
