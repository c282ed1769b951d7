package service

import (
	"errors"
	"fmt"
	"time"
)

// Kind — классификация отказа 3Commas API, от неё зависит политика ретраев.
type Kind int

const (
	KindTransient Kind = iota // сеть / 5xx — ретраим с бэкоффом
	KindRateLimited           // 429 — ждём столько, сколько сказала платформа
	KindUnauthorized          // 401/403 — не ретраим, эскалируем сразу
	KindNotFound              // 404 — сделка исчезла между fetch и apply
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "transient"
	}
}

// APIError — тегированный отказ клиента.
type APIError struct {
	Kind       Kind
	Status     int           // HTTP-статус, 0 для сетевых ошибок
	Msg        string        // кусок тела ответа для диагностики
	RetryAfter time.Duration // только для RateLimited
	cause      error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("threecommas: %s: %v", e.Kind, e.cause)
	}
	if e.Msg != "" {
		return fmt.Sprintf("threecommas: %s (http %d): %s", e.Kind, e.Status, e.Msg)
	}
	return fmt.Sprintf("threecommas: %s (http %d)", e.Kind, e.Status)
}

func (e *APIError) Unwrap() error { return e.cause }

func kindOf(err error) (Kind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

func IsUnauthorized(err error) bool { k, ok := kindOf(err); return ok && k == KindUnauthorized }
func IsNotFound(err error) bool     { k, ok := kindOf(err); return ok && k == KindNotFound }
func IsRateLimited(err error) bool  { k, ok := kindOf(err); return ok && k == KindRateLimited }
func IsTransient(err error) bool    { k, ok := kindOf(err); return ok && k == KindTransient }
