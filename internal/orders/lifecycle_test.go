package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/pkg/logger"
)

type fakeBackend struct {
	srv    *httptest.Server
	hits   int
	path   string
	body   map[string]any
	client *backend.Client
}

// newFakeBackend serves respond for every request and records what arrived.
func newFakeBackend(t *testing.T, respond any) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.hits++
		fb.path = r.URL.Path
		fb.body = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&fb.body)
		}
		require.NoError(t, json.NewEncoder(w).Encode(respond))
	}))
	t.Cleanup(fb.srv.Close)
	fb.client = backend.New(fb.srv.URL, backend.AuthBearer, nil, logger.Discard(), nil)
	return fb
}

func paidOrder() *models.Order {
	return &models.Order{ID: "ord-1", Status: models.OrderStatusPending, TrackingStatus: models.TrackingPaid}
}

func TestScheduleMeeting(t *testing.T) {
	fb := newFakeBackend(t, models.Order{ID: "ord-1", TrackingStatus: models.TrackingMeetingScheduled})
	client := New(fb.client)

	at := time.Date(2026, 9, 14, 16, 30, 0, 0, time.UTC)
	updated, err := client.ScheduleMeeting(context.Background(), paidOrder(), "  Central Park  ", at)
	require.NoError(t, err)

	assert.Equal(t, models.TrackingMeetingScheduled, updated.TrackingStatus)
	assert.Equal(t, "/purchases/ord-1/schedule-meeting", fb.path)
	assert.Equal(t, "Central Park", fb.body["location"])
	assert.Equal(t, at.Format(time.RFC3339), fb.body["time"])
}

func TestScheduleMeetingValidatesBeforeRequest(t *testing.T) {
	fb := newFakeBackend(t, models.Order{})
	client := New(fb.client)
	ctx := context.Background()
	at := time.Date(2026, 9, 14, 16, 30, 0, 0, time.UTC)

	_, err := client.ScheduleMeeting(ctx, paidOrder(), "   ", at)
	assert.True(t, backend.IsKind(err, backend.KindValidation))

	_, err = client.ScheduleMeeting(ctx, paidOrder(), "Central Park", time.Time{})
	assert.True(t, backend.IsKind(err, backend.KindValidation))

	completed := paidOrder()
	completed.TrackingStatus = models.TrackingCompleted
	_, err = client.ScheduleMeeting(ctx, completed, "Central Park", at)
	assert.True(t, backend.IsKind(err, backend.KindValidation))

	assert.Zero(t, fb.hits, "rejected input must not reach the backend")
}

func TestReleaseFunds(t *testing.T) {
	fb := newFakeBackend(t, models.Order{ID: "ord-1", TrackingStatus: models.TrackingCompleted})
	client := New(fb.client)

	order := paidOrder()
	order.TrackingStatus = models.TrackingMeetingScheduled
	updated, err := client.ReleaseFunds(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, models.TrackingCompleted, updated.TrackingStatus)
	assert.Equal(t, "/purchases/ord-1/release-funds", fb.path)
}

func TestReleaseFundsRequiresScheduledMeetup(t *testing.T) {
	fb := newFakeBackend(t, models.Order{})
	client := New(fb.client)

	_, err := client.ReleaseFunds(context.Background(), paidOrder())
	assert.True(t, backend.IsKind(err, backend.KindValidation))
	assert.Zero(t, fb.hits)
}

func TestRetractFunds(t *testing.T) {
	fb := newFakeBackend(t, models.Order{ID: "ord-1", TrackingStatus: models.TrackingRefundRequested})
	client := New(fb.client)

	updated, err := client.RetractFunds(context.Background(), paidOrder(), "seller never showed up")
	require.NoError(t, err)

	assert.Equal(t, models.TrackingRefundRequested, updated.TrackingStatus)
	assert.Equal(t, "/purchases/ord-1/retract-funds", fb.path)
	assert.Equal(t, "seller never showed up", fb.body["reason"])
}

func TestRetractFundsValidatesBeforeRequest(t *testing.T) {
	fb := newFakeBackend(t, models.Order{})
	client := New(fb.client)
	ctx := context.Background()

	_, err := client.RetractFunds(ctx, paidOrder(), "  ")
	assert.True(t, backend.IsKind(err, backend.KindValidation))

	done := paidOrder()
	done.TrackingStatus = models.TrackingCompleted
	_, err = client.RetractFunds(ctx, done, "changed my mind")
	assert.True(t, backend.IsKind(err, backend.KindValidation))

	assert.Zero(t, fb.hits)
}

func TestRateSeller(t *testing.T) {
	fb := newFakeBackend(t, models.Order{ID: "ord-1", TrackingStatus: models.TrackingCompleted, SellerRating: 5})
	client := New(fb.client)

	order := paidOrder()
	order.TrackingStatus = models.TrackingCompleted
	updated, err := client.RateSeller(context.Background(), order, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.SellerRating)
	assert.Equal(t, "/purchases/ord-1/rate", fb.path)
}

func TestRateSellerValidatesBeforeRequest(t *testing.T) {
	fb := newFakeBackend(t, models.Order{})
	client := New(fb.client)
	ctx := context.Background()

	completed := paidOrder()
	completed.TrackingStatus = models.TrackingCompleted

	for _, rating := range []int{0, -1, 6} {
		_, err := client.RateSeller(ctx, completed, rating)
		assert.True(t, backend.IsKind(err, backend.KindValidation))
	}

	_, err := client.RateSeller(ctx, paidOrder(), 4)
	assert.True(t, backend.IsKind(err, backend.KindValidation), "only completed orders can be rated")

	rated := paidOrder()
	rated.TrackingStatus = models.TrackingCompleted
	rated.SellerRating = 3
	_, err = client.RateSeller(ctx, rated, 4)
	assert.True(t, backend.IsKind(err, backend.KindValidation), "rating is one-shot")

	assert.Zero(t, fb.hits)
}

func TestGetRequiresID(t *testing.T) {
	fb := newFakeBackend(t, models.Order{})
	client := New(fb.client)

	_, err := client.Get(context.Background(), "")
	assert.True(t, backend.IsKind(err, backend.KindValidation))
	assert.Zero(t, fb.hits)
}
