package models

import "strconv"

// TargetKind — тип цели мониторинга из конфига.
type TargetKind string

const (
	TargetAccount TargetKind = "account"
	TargetBot     TargetKind = "bot"
	TargetDeal    TargetKind = "deal"
)

// Target — аккаунт, бот или конкретная сделка, выбранные оператором.
type Target struct {
	Kind TargetKind
	ID   int64
}

func (t Target) Key() string { return string(t.Kind) + ":" + strconv.FormatInt(t.ID, 10) }
