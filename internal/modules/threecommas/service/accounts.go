package service

import (
	"context"
	"net/http"

	"botnanny/internal/models"
)

func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var entries []accountEntry
	if err := c.do(ctx, http.MethodGet, "/public/api/ver1/accounts", nil, &entries); err != nil {
		return nil, err
	}

	res := make([]models.Account, 0, len(entries))
	for _, e := range entries {
		res = append(res, models.Account{ID: e.ID, Name: e.Name})
	}
	return res, nil
}
