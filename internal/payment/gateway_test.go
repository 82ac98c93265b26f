package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/pkg/logger"
)

func paymentClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(backend.New(srv.URL, backend.AuthBearer, nil, logger.Discard(), nil), "NGN", logger.Discard())
}

func TestInitializeDefaultsCurrencyAndReference(t *testing.T) {
	var got InitRequest
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/initialize", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(InitResult{
			AuthorizationURL: "https://pay.example.com/abc",
			Reference:        got.Reference,
		})
	})

	result, err := client.Initialize(context.Background(), InitRequest{
		Amount: 2000,
		Email:  "ada@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "NGN", got.Currency)
	_, parseErr := uuid.Parse(got.Reference)
	assert.NoError(t, parseErr, "a missing reference must be filled with a generated one")
	assert.Equal(t, got.Reference, result.Reference)
	assert.Equal(t, "https://pay.example.com/abc", result.AuthorizationURL)
}

func TestInitializeKeepsCallerReference(t *testing.T) {
	var got InitRequest
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(InitResult{AuthorizationURL: "https://pay.example.com/abc"})
	})

	result, err := client.Initialize(context.Background(), InitRequest{
		Amount:    500,
		Email:     "ada@example.com",
		Currency:  "USD",
		Reference: "ref-42",
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "ref-42", got.Reference)
	assert.Equal(t, "ref-42", result.Reference, "an empty gateway reference falls back to ours")
}

func TestInitializeValidatesBeforeRequest(t *testing.T) {
	hits := 0
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) { hits++ })
	ctx := context.Background()

	_, err := client.Initialize(ctx, InitRequest{Amount: 0, Email: "ada@example.com"})
	assert.True(t, backend.IsKind(err, backend.KindValidation))

	_, err = client.Initialize(ctx, InitRequest{Amount: 100, Email: "  "})
	assert.True(t, backend.IsKind(err, backend.KindValidation))

	assert.Zero(t, hits)
}

func TestInitializeRejectsEmptyCheckoutURL(t *testing.T) {
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(InitResult{})
	})

	_, err := client.Initialize(context.Background(), InitRequest{Amount: 100, Email: "ada@example.com"})
	assert.True(t, backend.IsKind(err, backend.KindServer))
}

func TestVerify(t *testing.T) {
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/verify/ref-42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Verification{Status: StatusSuccess, Amount: 2000})
	})

	v, err := client.Verify(context.Background(), "ref-42")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, v.Status)
	assert.Equal(t, "ref-42", v.Reference, "a missing reference echoes the request's")
	assert.True(t, v.Settled())
}

func TestVerifyRequiresReference(t *testing.T) {
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Verify(context.Background(), "")
	assert.True(t, backend.IsKind(err, backend.KindValidation))
}

func TestSettled(t *testing.T) {
	assert.True(t, (&Verification{Status: StatusSuccess}).Settled())
	assert.True(t, (&Verification{Status: StatusFailed}).Settled())
	assert.False(t, (&Verification{Status: StatusPending}).Settled())
}

func TestWatchReturnsOnSettlement(t *testing.T) {
	var calls int64
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		status := StatusPending
		if n >= 3 {
			status = StatusSuccess
		}
		_ = json.NewEncoder(w).Encode(Verification{Reference: "ref-42", Status: status})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	v, err := client.Watch(ctx, "ref-42", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, v.Status)
	assert.GreaterOrEqual(t, atomic.LoadInt64(&calls), int64(3))
}

func TestWatchSurvivesVerifyErrors(t *testing.T) {
	var calls int64
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(Verification{Reference: "ref-42", Status: StatusFailed})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	v, err := client.Watch(ctx, "ref-42", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, v.Status)
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	client := paymentClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Verification{Status: StatusPending})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Watch(ctx, "ref-42", 10*time.Millisecond)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "deadline") || strings.Contains(err.Error(), "cancel"))
}
