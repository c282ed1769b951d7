package models

import "github.com/shopspring/decimal"

// Rule — порог срабатывания: при PnL >= MinPnlPercent подтягиваем SL к NewStopLossPercent.
type Rule struct {
	MinPnlPercent      decimal.Decimal
	NewStopLossPercent decimal.Decimal
}

// RuleSet — неизменяемый на время запуска набор правил.
type RuleSet []Rule

// Match выбирает правило для данного PnL. Порог включительный (pnl == min — срабатывает).
// Если подходит несколько правил — берём с самым высоким MinPnlPercent.
func (rs RuleSet) Match(pnl decimal.Decimal) (Rule, bool) {
	var (
		best  Rule
		found bool
	)
	for _, r := range rs {
		if pnl.LessThan(r.MinPnlPercent) {
			continue
		}
		if !found || r.MinPnlPercent.GreaterThan(best.MinPnlPercent) {
			best = r
			found = true
		}
	}
	return best, found
}
