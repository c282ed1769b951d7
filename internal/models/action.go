package models

import "github.com/shopspring/decimal"

const Version = "1.2.0"

// ActionKind — исход обработки одной сделки за цикл.
type ActionKind string

const (
	ActionApplied ActionKind = "applied"
	ActionSkipped ActionKind = "skipped"
	ActionFailed  ActionKind = "failed"
)

// ActionResult — ровно одно на обработанную сделку за цикл.
type ActionResult struct {
	Kind        ActionKind
	NewStopLoss decimal.Decimal // для applied
	Reason      string          // для skipped
	Err         error           // для failed
}

func Applied(newStopLoss decimal.Decimal) ActionResult {
	return ActionResult{Kind: ActionApplied, NewStopLoss: newStopLoss}
}

func Skipped(reason string) ActionResult {
	return ActionResult{Kind: ActionSkipped, Reason: reason}
}

func Failed(err error) ActionResult {
	return ActionResult{Kind: ActionFailed, Err: err}
}

// Decision — результат чистой оценки сделки (до похода в API).
type Decision struct {
	Apply       bool
	NewStopLoss decimal.Decimal
	Reason      string // причина скипа, если Apply == false
}
