package models

import "github.com/shopspring/decimal"

// Deal — открытая DCA-сделка на стороне 3Commas.
// StopLoss хранится в НАШЕЙ конвенции: положительный процент = стоп в прибыли.
// (3Commas для DCA-сделок хранит знак наоборот, перевод делает клиент.)
type Deal struct {
	ID       int64
	BotID    int64
	BotName  string
	Pair     string
	Status   string
	Finished bool

	PnlPercent  decimal.Decimal // actual_profit_percentage
	StopLoss    decimal.Decimal // текущий SL, >0 — защита прибыли, <0 — стоп в убытке
	HasStopLoss bool            // stop_loss_percentage задан и не равен нулю
	TrailingOn  bool            // tsl_enabled — SL уже трейлится самим 3Commas
}

// Статусы, при которых сделку трогать нельзя (список из 3Commas API).
var inactiveStatuses = map[string]struct{}{
	"cancelled":                  {},
	"completed":                  {},
	"failed":                     {},
	"panic_sell_pending":         {},
	"panic_sell_order_placed":    {},
	"panic_sold":                 {},
	"cancel_pending":             {},
	"stop_loss_pending":          {},
	"stop_loss_finished":         {},
	"stop_loss_order_placed":     {},
	"switched":                   {},
	"switched_take_profit":       {},
	"liquidated":                 {},
	"bought_safety_pending":      {},
	"bought_take_profit_pending": {},
	"settled":                    {},
}

// IsActive сообщает, можно ли для сделки двигать StopLoss.
func (d Deal) IsActive() bool {
	if d.Finished {
		return false
	}
	_, inactive := inactiveStatuses[d.Status]
	return !inactive
}

// Account — аккаунт 3Commas, выбранный для мониторинга.
type Account struct {
	ID   int64
	Name string
}

// Bot — DCA-бот 3Commas.
type Bot struct {
	ID        int64
	Name      string
	AccountID int64
}
