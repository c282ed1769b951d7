package service

import (
	"botnanny/internal/helper"
	"botnanny/internal/models"
)

type accountEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type botEntry struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AccountID int64  `json:"account_id"`
	IsEnabled bool   `json:"is_enabled"`
}

type dealEntry struct {
	ID       int64  `json:"id"`
	BotID    int64  `json:"bot_id"`
	BotName  string `json:"bot_name"`
	Pair     string `json:"pair"`
	Status   string `json:"status"`
	Finished bool   `json:"finished?"`

	ActualProfitPercentage string `json:"actual_profit_percentage"`
	StopLossPercentage     string `json:"stop_loss_percentage"`
	StopLossType           string `json:"stop_loss_type"`
	TslEnabled             bool   `json:"tsl_enabled"`
}

func (e dealEntry) toModel() (models.Deal, error) {
	pnl, err := helper.ParsePercent(e.ActualProfitPercentage)
	if err != nil {
		return models.Deal{}, err
	}
	rawSL, err := helper.ParsePercent(e.StopLossPercentage)
	if err != nil {
		return models.Deal{}, err
	}

	// NOTE: DCA-сделки 3Commas хранят SL с обратным знаком:
	// +ve у 3C — это стоп в убытке, -ve — стоп в прибыли. Переворачиваем здесь,
	// чтобы остальной код жил в одной конвенции.
	sl := rawSL.Neg()

	return models.Deal{
		ID:          e.ID,
		BotID:       e.BotID,
		BotName:     e.BotName,
		Pair:        e.Pair,
		Status:      e.Status,
		Finished:    e.Finished,
		PnlPercent:  pnl,
		StopLoss:    sl,
		HasStopLoss: !rawSL.IsZero(),
		TrailingOn:  e.TslEnabled,
	}, nil
}
