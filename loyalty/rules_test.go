package loyalty_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoshop/erp-engine/loyalty"
)

func ruleParams() loyalty.RuleVersionParams {
	return loyalty.RuleVersionParams{
		PointsPerCurrency:    decimal.NewFromFloat(0.0001),
		RedemptionRate:       decimal.NewFromInt(1000),
		MaxRedemptionPercent: decimal.NewFromInt(50),
		MinRedemptionPoints:  100,
		EvaluationBasis:      loyalty.BasisLifetimePoints,
		Activate:             true,
	}
}

// =============================================================================
// SINGLE ACTIVE VERSION INVARIANT
// =============================================================================

func TestCreateRuleVersion_ActivationDeactivatesPrior(t *testing.T) {
	// GIVEN: An active version 1
	// WHEN: Version 2 is created with Activate
	// THEN: Exactly one version is active, and it's version 2;
	//       version 1's effective window is closed

	e := newTestEngine(t)
	ctx := context.Background()

	v1, err := e.CreateRuleVersion(ctx, ruleParams(), "admin-1")
	require.NoError(t, err)
	require.Equal(t, 1, v1.VersionNumber)
	require.True(t, v1.Active)

	p2 := ruleParams()
	p2.MinRedemptionPoints = 200
	v2, err := e.CreateRuleVersion(ctx, p2, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 2, v2.VersionNumber)

	active, err := e.ActiveRuleVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, active.ID)

	versions, err := e.RuleVersions(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, rv := range versions {
		if rv.Active {
			activeCount++
		}
		if rv.ID == v1.ID {
			assert.NotNil(t, rv.EffectiveTo, "superseded version must be closed")
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestCreateRuleVersion_Inactive(t *testing.T) {
	// A version created without Activate does not govern anything.
	e := newTestEngine(t)
	ctx := context.Background()

	p := ruleParams()
	p.Activate = false
	_, err := e.CreateRuleVersion(ctx, p, "admin-1")
	require.NoError(t, err)

	_, err = e.ActiveRuleVersion(ctx)
	assert.ErrorIs(t, err, loyalty.ErrNoActiveRuleVersion)
}

func TestActivateRuleVersion_Switch(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	v1, err := e.CreateRuleVersion(ctx, ruleParams(), "admin-1")
	require.NoError(t, err)

	p2 := ruleParams()
	p2.Activate = false
	v2, err := e.CreateRuleVersion(ctx, p2, "admin-1")
	require.NoError(t, err)

	activated, err := e.ActivateRuleVersion(ctx, v2.ID, "admin-1")
	require.NoError(t, err)
	assert.True(t, activated.Active)
	assert.Nil(t, activated.EffectiveTo)

	active, err := e.ActiveRuleVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, active.ID)
	assert.NotEqual(t, v1.ID, active.ID)
}

func TestActivateRuleVersion_UnknownID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ActivateRuleVersion(context.Background(), "nope", "admin-1")
	assert.ErrorIs(t, err, loyalty.ErrRuleVersionNotFound)
	assert.True(t, loyalty.IsNotFound(err))
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestCreateRuleVersion_Validation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	cases := map[string]func(*loyalty.RuleVersionParams){
		"negative points per currency": func(p *loyalty.RuleVersionParams) {
			p.PointsPerCurrency = decimal.NewFromInt(-1)
		},
		"zero redemption rate": func(p *loyalty.RuleVersionParams) {
			p.RedemptionRate = decimal.Zero
		},
		"percent above 100": func(p *loyalty.RuleVersionParams) {
			p.MaxRedemptionPercent = decimal.NewFromInt(150)
		},
		"negative minimum": func(p *loyalty.RuleVersionParams) {
			p.MinRedemptionPoints = -1
		},
		"unknown basis": func(p *loyalty.RuleVersionParams) {
			p.EvaluationBasis = "vibes"
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := ruleParams()
			mutate(&p)
			_, err := e.CreateRuleVersion(ctx, p, "admin-1")
			assert.ErrorIs(t, err, loyalty.ErrInvalidRuleVersion)
		})
	}
}
