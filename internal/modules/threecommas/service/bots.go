package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"botnanny/internal/models"
)

// ListBots выгребает всех ботов аккаунта постранично (батчи по 100).
func (c *Client) ListBots(ctx context.Context, accountID int64) ([]models.Bot, error) {
	var res []models.Bot

	offset := 0
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(botsBatchSize))
		q.Set("offset", strconv.Itoa(offset))
		q.Set("account_id", strconv.FormatInt(accountID, 10))

		var page []botEntry
		if err := c.do(ctx, http.MethodGet, "/public/api/ver1/bots?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}

		for _, e := range page {
			res = append(res, models.Bot{ID: e.ID, Name: e.Name, AccountID: e.AccountID})
		}

		offset += len(page)
		if len(page) < botsBatchSize {
			return res, nil
		}
	}
}
