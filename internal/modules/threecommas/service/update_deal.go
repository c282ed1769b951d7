package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// UpdateDealStopLoss выставляет SL сделки. value — в нашей конвенции
// (положительный процент = защита прибыли); знак переворачиваем обратно
// под 3Commas при отправке.
func (c *Client) UpdateDealStopLoss(ctx context.Context, dealID int64, value decimal.Decimal) error {
	body := map[string]any{
		"deal_id":              dealID,
		"stop_loss_type":       "stop_loss",
		"stop_loss_percentage": value.Neg().String(),
	}

	path := fmt.Sprintf("/public/api/ver1/deals/%d/update_deal", dealID)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}
