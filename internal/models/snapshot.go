package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot — локальная запись о сделке: что видели и что применили в последний раз.
// Коммитится ТОЛЬКО после подтверждённого апдейта на стороне 3Commas.
type Snapshot struct {
	PnlPercent   decimal.Decimal // последний наблюдаемый PnL
	StopLoss     decimal.Decimal // последний применённый нами SL
	LastActionAt time.Time
}
