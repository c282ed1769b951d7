package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDealIsActive(t *testing.T) {
	assert.True(t, Deal{Status: "bought"}.IsActive())
	assert.True(t, Deal{Status: "base_order_placed"}.IsActive())

	assert.False(t, Deal{Status: "bought", Finished: true}.IsActive())
	assert.False(t, Deal{Status: "panic_sold"}.IsActive())
	assert.False(t, Deal{Status: "stop_loss_finished"}.IsActive())
	assert.False(t, Deal{Status: "cancelled"}.IsActive())
}

func TestRuleSetMatch(t *testing.T) {
	pct := func(v string) decimal.Decimal { d, _ := decimal.NewFromString(v); return d }
	rs := RuleSet{
		{MinPnlPercent: pct("4"), NewStopLossPercent: pct("1")},
		{MinPnlPercent: pct("7"), NewStopLossPercent: pct("4")},
	}

	_, ok := rs.Match(pct("3.99"))
	assert.False(t, ok)

	// порог включительный
	r, ok := rs.Match(pct("4"))
	assert.True(t, ok)
	assert.True(t, r.NewStopLossPercent.Equal(pct("1")))

	// из нескольких сработавших берётся самый высокий порог
	r, ok = rs.Match(pct("8.2"))
	assert.True(t, ok)
	assert.True(t, r.NewStopLossPercent.Equal(pct("4")))
}
