package runner

import (
	"botnanny/internal/models"
)

// Evaluate решает судьбу сделки на этом цикле. Чистая функция без сайд-эффектов:
// вся идемпотентность живёт здесь, "стоп уже на цели или защищённее" — это Skip.
func Evaluate(deal models.Deal, snap models.Snapshot, hasSnap bool, rules models.RuleSet) models.Decision {
	if !deal.IsActive() {
		return models.Decision{Reason: "inactive"}
	}
	if deal.TrailingOn {
		// биржевой трейлинг сам подтянет стоп, не мешаем
		return models.Decision{Reason: "trailing enabled"}
	}
	rule, ok := rules.Match(deal.PnlPercent)
	if !ok {
		return models.Decision{Reason: "below threshold"}
	}
	candidate := rule.NewStopLossPercent
	if deal.HasStopLoss && deal.StopLoss.GreaterThanOrEqual(candidate) {
		return models.Decision{Reason: "already applied"}
	}
	if hasSnap && snap.StopLoss.GreaterThanOrEqual(candidate) {
		return models.Decision{Reason: "already applied"}
	}
	return models.Decision{Apply: true, NewStopLoss: candidate}
}
