package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
)

// 3Commas API documentation:
// https://github.com/3commas-io/3commas-official-api-docs
const (
	defaultBaseURL = "https://api.3commas.io"

	botsBatchSize  = 100
	dealsBatchSize = 1000

	defaultMaxAttempts    = 4
	defaultPaceInterval   = time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultRetryAfter     = 30 * time.Second
)

type Config struct {
	APIKey    string
	APISecret string

	BaseURL        string        // для тестов
	RequestTimeout time.Duration // таймаут одного HTTP-вызова
	MaxAttempts    int           // общий лимит попыток на запрос
	PaceInterval   time.Duration // минимальный интервал между вызовами API
}

type Client struct {
	httpc     *http.Client
	baseURL   string
	apiKey    string
	apiSecret string

	maxAttempts int
	pace        time.Duration

	paceMu   sync.Mutex
	nextCall time.Time
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("threecommas: api key/secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.PaceInterval <= 0 {
		cfg.PaceInterval = defaultPaceInterval
	}

	return &Client{
		httpc:       &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		apiSecret:   cfg.APISecret,
		maxAttempts: cfg.MaxAttempts,
		pace:        cfg.PaceInterval,
	}, nil
}

// sign — HMAC-SHA256 hex от path+query+body на api secret (конвенция 3Commas).
func (c *Client) sign(requestPath string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(requestPath))
	if len(payload) > 0 {
		h.Write(payload)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// do гоняет запрос через единую политику ретраев:
// Transient и RateLimited ретраим до maxAttempts, остальное отдаём сразу.
func (c *Client) do(ctx context.Context, method, requestPath string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = sonic.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "threecommas: marshal body")
		}
	}

	bo := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    30 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	for attempt := 1; ; attempt++ {
		if err := c.paceWait(ctx); err != nil {
			return err
		}

		apiErr := c.once(ctx, method, requestPath, payload, out)
		if apiErr == nil {
			return nil
		}

		switch apiErr.Kind {
		case KindUnauthorized, KindNotFound:
			return apiErr
		}

		if attempt >= c.maxAttempts {
			return apiErr
		}

		delay := bo.Duration()
		if apiErr.Kind == KindRateLimited && apiErr.RetryAfter > 0 {
			delay = apiErr.RetryAfter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *Client) once(ctx context.Context, method, requestPath string, payload []byte, out any) *APIError {
	var rdr io.Reader
	if len(payload) > 0 {
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, rdr)
	if err != nil {
		return &APIError{Kind: KindTransient, cause: err}
	}
	req.Header.Set("APIKEY", c.apiKey)
	req.Header.Set("Signature", c.sign(requestPath, payload))
	if len(payload) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransient, cause: err}
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode/100 == 2:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Kind: KindTransient, Status: resp.StatusCode, Msg: snippet(data), cause: err}
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return &APIError{Kind: KindUnauthorized, Status: resp.StatusCode, Msg: snippet(data)}

	case resp.StatusCode == http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Status: resp.StatusCode, Msg: snippet(data)}

	case resp.StatusCode == http.StatusTooManyRequests:
		return &APIError{
			Kind:       KindRateLimited,
			Status:     resp.StatusCode,
			Msg:        snippet(data),
			RetryAfter: retryAfter(resp),
		}

	default:
		return &APIError{Kind: KindTransient, Status: resp.StatusCode, Msg: snippet(data)}
	}
}

// paceWait размазывает вызовы с минимальным интервалом — 3Commas банит частые запросы.
func (c *Client) paceWait(ctx context.Context) error {
	if c.pace == 0 {
		return nil
	}

	c.paceMu.Lock()
	now := time.Now()
	slot := c.nextCall
	if slot.Before(now) {
		slot = now
	}
	c.nextCall = slot.Add(c.pace)
	c.paceMu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

func snippet(data []byte) string {
	const max = 256
	if len(data) > max {
		data = data[:max]
	}
	return string(data)
}
