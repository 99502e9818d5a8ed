package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Plan describes a subscription offering.
type Plan struct {
	ID       string  `toml:"id"`
	Name     string  `toml:"name"`
	Price    float64 `toml:"price"`
	Currency string  `toml:"currency"`
	// Interval is "monthly" or "yearly".
	Interval string `toml:"interval"`
}

// Plans is the catalog of subscription offerings keyed by plan id.
type Plans map[string]Plan

// DefaultPlans mirrors the launch pricing (BRL).
func DefaultPlans() Plans {
	return Plans{
		"monthly": {
			ID:       "monthly",
			Name:     "Plano Mensal",
			Price:    4.90,
			Currency: "BRL",
			Interval: "monthly",
		},
		"yearly": {
			ID:       "yearly",
			Name:     "Plano Anual",
			Price:    39.90,
			Currency: "BRL",
			Interval: "yearly",
		},
	}
}

type plansFile struct {
	Plan []Plan `toml:"plan"`
}

// LoadPlans returns the plan catalog, overridden by the TOML file at path
// when one is configured. Each [[plan]] entry replaces the default with the
// same id.
func LoadPlans(path string) (Plans, error) {
	plans := DefaultPlans()
	if path == "" {
		return plans, nil
	}

	var f plansFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load plans file: %w", err)
	}
	for _, p := range f.Plan {
		if p.ID == "" {
			return nil, fmt.Errorf("plans file: plan entry missing id")
		}
		if p.Currency == "" {
			p.Currency = "BRL"
		}
		if p.Interval == "" {
			p.Interval = p.ID
		}
		plans[p.ID] = p
	}
	return plans, nil
}

// Get returns the plan with the given id.
func (p Plans) Get(id string) (Plan, bool) {
	plan, ok := p[id]
	return plan, ok
}
