package runner

import (
	"go.uber.org/zap"

	"botnanny/internal/helper"
	"botnanny/internal/models"
	"botnanny/internal/modules/threecommas/service"
	"botnanny/internal/notify"
	"botnanny/pkg/logger"
)

// Reporter пишет итог каждой сделки в лог и шлёт уведомления о значимых событиях.
// Skip в телеграм не идёт, иначе каждые десять минут будет спам.
type Reporter struct {
	n notify.Notifier
}

func NewReporter(n notify.Notifier) *Reporter {
	return &Reporter{n: n}
}

func (p *Reporter) Report(dealID int64, res models.ActionResult) {
	switch res.Kind {
	case models.ActionApplied:
		logger.Infow("deal action",
			zap.Int64("dealId", dealID),
			zap.String("decision", string(res.Kind)),
			zap.String("newStopLoss", res.NewStopLoss.String()),
		)
		p.n.Sendf("🛡 Deal %d: stop loss moved to %s", dealID, helper.FormatPercent(res.NewStopLoss))
	case models.ActionSkipped:
		logger.Infow("deal action",
			zap.Int64("dealId", dealID),
			zap.String("decision", string(res.Kind)),
			zap.String("reason", res.Reason),
		)
	case models.ActionFailed:
		logger.Errorw("deal action",
			zap.Int64("dealId", dealID),
			zap.String("decision", string(res.Kind)),
			zap.Error(res.Err),
		)
		p.n.Sendf("❗️ Deal %d: stop loss update failed: %v", dealID, res.Err)
	}
}

func (p *Reporter) TargetFailed(targetKey string, err error) {
	logger.Errorw("target fetch failed",
		zap.String("target", targetKey),
		zap.Error(err),
	)
	if service.IsUnauthorized(err) {
		p.n.Sendf("⛔️ Target %s: 3Commas rejected credentials", targetKey)
	}
}

func (p *Reporter) Escalate(cycles int) {
	logger.Error("no target reachable for %d consecutive cycles", cycles)
	p.n.Sendf("🚨 BotNanny: 3Commas unreachable for %d cycles in a row", cycles)
}
