package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botnanny/internal/helper"
)

const (
	testKey    = "test-key"
	testSecret = "test-secret"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:    testKey,
		APISecret: testSecret,
		BaseURL:   srv.URL,
	})
	require.NoError(t, err)
	c.pace = 0 // в тестах не размазываем
	return c
}

func signFor(requestPath string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(requestPath))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClientSignsRequests(t *testing.T) {
	var gotKey, gotSig, gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("APIKEY")
		gotSig = r.Header.Get("Signature")
		gotPath = r.URL.RequestURI()
		fmt.Fprint(w, "[]")
	}))

	_, err := c.ListAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testKey, gotKey)
	assert.Equal(t, "/public/api/ver1/accounts", gotPath)
	assert.Equal(t, signFor("/public/api/ver1/accounts", nil), gotSig)
}

func TestClientSignsBody(t *testing.T) {
	var gotSig string
	var gotBody []byte
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("Signature")
		gotBody, _ = io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPatch, r.Method)
		fmt.Fprint(w, "{}")
	}))

	err := c.UpdateDealStopLoss(context.Background(), 77, helper.Percent(1.0))
	require.NoError(t, err)

	assert.Equal(t, signFor("/public/api/ver1/deals/77/update_deal", gotBody), gotSig)

	var body map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &body))
	// на проводе знак перевёрнут под конвенцию 3Commas
	assert.Equal(t, "-1", body["stop_loss_percentage"])
	assert.Equal(t, "stop_loss", body["stop_loss_type"])
}

func TestClientListDealsPaginates(t *testing.T) {
	page := func(from, n int) string {
		out := "["
		for i := 0; i < n; i++ {
			if i > 0 {
				out += ","
			}
			out += fmt.Sprintf(`{"id":%d,"bot_id":10,"status":"bought","actual_profit_percentage":"4.50","stop_loss_percentage":"0.0"}`, from+i)
		}
		return out + "]"
	}

	var offsets []int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		offsets = append(offsets, offset)
		assert.Equal(t, "active", r.URL.Query().Get("scope"))
		assert.Equal(t, "10", r.URL.Query().Get("bot_id"))

		if offset == 0 {
			fmt.Fprint(w, page(1, dealsBatchSize))
			return
		}
		fmt.Fprint(w, page(dealsBatchSize+1, 3))
	}))

	deals, err := c.ListDeals(context.Background(), 10)
	require.NoError(t, err)

	assert.Len(t, deals, dealsBatchSize+3)
	assert.Equal(t, []int{0, dealsBatchSize}, offsets)
}

func TestClientDealSignFlip(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":5,"bot_id":10,"status":"bought","actual_profit_percentage":"4.07","stop_loss_percentage":"-1.0","tsl_enabled":false}`)
	}))

	deal, err := c.GetDeal(context.Background(), 5)
	require.NoError(t, err)

	// -1.0 у 3Commas означает стоп на +1% прибыли
	assert.True(t, deal.StopLoss.Equal(helper.Percent(1.0)))
	assert.True(t, deal.HasStopLoss)
	assert.True(t, deal.PnlPercent.Equal(helper.Percent(4.07)))
}

func TestClientRetriesRateLimited(t *testing.T) {
	var calls int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, "{}")
	}))

	err := c.UpdateDealStopLoss(context.Background(), 77, helper.Percent(1.0))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestClientUnauthorizedNoRetry(t *testing.T) {
	var calls int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.ListAccounts(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 1, calls)
}

func TestClientNotFoundNoRetry(t *testing.T) {
	var calls int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))

	err := c.UpdateDealStopLoss(context.Background(), 77, helper.Percent(1.0))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 1, calls)
}

func TestClientTransientBoundedRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: testKey, APISecret: testSecret, BaseURL: srv.URL, MaxAttempts: 2})
	require.NoError(t, err)
	c.pace = 0

	_, err = c.ListAccounts(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 2, calls)
}

func TestClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClientSkipsMalformedDeal(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1,"actual_profit_percentage":"not-a-number"},{"id":2,"status":"bought","actual_profit_percentage":"4.50"}]`)
	}))

	deals, err := c.ListDeals(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, int64(2), deals[0].ID)
}
