package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"botnanny/internal/models"
)

// ListDeals отдаёт активные сделки бота (батчи по 1000).
// Сделки с битыми числовыми полями пропускаем, не роняя страницу.
func (c *Client) ListDeals(ctx context.Context, botID int64) ([]models.Deal, error) {
	var res []models.Deal

	offset := 0
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(dealsBatchSize))
		q.Set("offset", strconv.Itoa(offset))
		q.Set("bot_id", strconv.FormatInt(botID, 10))
		q.Set("scope", "active")

		var page []dealEntry
		if err := c.do(ctx, http.MethodGet, "/public/api/ver1/deals?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}

		for _, e := range page {
			d, err := e.toModel()
			if err != nil {
				continue
			}
			res = append(res, d)
		}

		offset += len(page)
		if len(page) < dealsBatchSize {
			return res, nil
		}
	}
}

func (c *Client) GetDeal(ctx context.Context, dealID int64) (models.Deal, error) {
	var entry dealEntry
	path := fmt.Sprintf("/public/api/ver1/deals/%d/show", dealID)
	if err := c.do(ctx, http.MethodGet, path, nil, &entry); err != nil {
		return models.Deal{}, err
	}
	return entry.toModel()
}
