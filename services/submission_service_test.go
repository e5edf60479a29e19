package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"djanselme/config"
	"djanselme/models"
	"djanselme/monitoring"
	"djanselme/security"
	"djanselme/validation"
)

type fakeStore struct {
	insertErr error

	calls      int
	collection string
	fields     map[string]any
}

func (f *fakeStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	f.calls++
	f.collection = collection
	f.fields = fields
	if f.insertErr != nil {
		return "", f.insertErr
	}
	return "rec123", nil
}

type fakeNotifier struct {
	err error

	calls   int
	payload models.NotificationPayload
}

func (f *fakeNotifier) Send(ctx context.Context, payload models.NotificationPayload) error {
	f.calls++
	f.payload = payload
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		SubmissionLimit:  3,
		SubmissionWindow: time.Hour,
		SubmitTimeout:    time.Second,
	}
}

func newTestService(store *fakeStore, notifier *fakeNotifier, incrVal int64) *SubmissionService {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectIncr(`ratelimit:.*`).SetVal(incrVal)
	mock.Regexp().ExpectExpire(`ratelimit:.*`, time.Hour).SetVal(true)

	limiter := security.NewRateLimiter(db, 3, time.Hour)
	monitor := monitoring.NewMonitor(db)

	return NewSubmissionService(store, notifier, limiter, nil, monitor, testConfig())
}

func validBookingForm() validation.BookingForm {
	return validation.BookingForm{
		Name:       "Jean Dupont",
		Email:      "Jean@Example.com",
		EventType:  "mariage",
		GuestCount: "120",
		Message:    "Un mariage en septembre, environ 120 invités.",
	}
}

func TestSubmitBooking_Done(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, 1)

	result := svc.SubmitBooking(context.Background(), validBookingForm())

	assert.Equal(t, models.SubmissionDone, result.State)
	assert.Equal(t, "rec123", result.RecordID)
	assert.Equal(t, "Votre demande de réservation a été envoyée. Nous vous recontacterons rapidement.", result.Message)

	require.Equal(t, 1, store.calls)
	assert.Equal(t, "bookings", store.collection)
	assert.Equal(t, "jean@example.com", store.fields["email"])
	assert.Equal(t, "pending", store.fields["status"])
	assert.Equal(t, 120, store.fields["guest_count"])

	require.Equal(t, 1, notifier.calls)
	assert.Equal(t, models.NotificationTypeBooking, notifier.payload.Type)
	assert.Equal(t, "120", notifier.payload.GuestCount)
}

func TestSubmitQuote_Done(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, 1)

	form := validation.QuoteForm{
		BookingForm:     validBookingForm(),
		DurationHours:   "6",
		SpecialRequests: "Playlist années 80",
	}
	result := svc.SubmitQuote(context.Background(), form)

	assert.Equal(t, models.SubmissionDone, result.State)
	assert.Equal(t, "quotes", store.collection)
	assert.Equal(t, 6, store.fields["duration_hours"])
	assert.Equal(t, models.NotificationTypeQuote, notifier.payload.Type)
	assert.Equal(t, "6", notifier.payload.DurationHours)
}

func TestSubmitBooking_InvalidNeverTouchesStore(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, 1)

	result := svc.SubmitBooking(context.Background(), validation.BookingForm{})

	assert.Equal(t, models.SubmissionInvalid, result.State)
	assert.NotEmpty(t, result.FieldErrors)
	assert.Equal(t, "Le nom est requis", result.FirstError)
	assert.Zero(t, store.calls)
	assert.Zero(t, notifier.calls)
}

func TestSubmitBooking_RateLimitedBeforePersist(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, 4)

	result := svc.SubmitBooking(context.Background(), validBookingForm())

	assert.Equal(t, models.SubmissionRateLimited, result.State)
	assert.Contains(t, result.Message, "3 demandes")
	assert.Zero(t, store.calls)
	assert.Zero(t, notifier.calls)
}

func TestSubmitBooking_PersistFailed(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk full")}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, 1)

	result := svc.SubmitBooking(context.Background(), validBookingForm())

	assert.Equal(t, models.SubmissionPersistFailed, result.State)
	assert.Equal(t, "Une erreur est survenue lors de l'envoi. Veuillez réessayer.", result.Message)
	assert.Zero(t, notifier.calls)
}

func TestSubmitBooking_StoreRateLimitSignature(t *testing.T) {
	// a backend policy rejection must surface as rate limiting, not as a
	// generic persistence failure
	store := &fakeStore{insertErr: errors.New("insert rejected: rate limit exceeded for bookings")}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, 1)

	result := svc.SubmitBooking(context.Background(), validBookingForm())

	assert.Equal(t, models.SubmissionRateLimited, result.State)
	assert.Zero(t, notifier.calls)
}

func TestSubmitBooking_NotificationFailureStillDone(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("smtp unreachable")}
	svc := newTestService(store, notifier, 1)

	result := svc.SubmitBooking(context.Background(), validBookingForm())

	assert.Equal(t, models.SubmissionDone, result.State)
	assert.Equal(t, "rec123", result.RecordID)
	assert.Equal(t, 1, notifier.calls)
}

func TestSubmitBooking_DuplicateInFlight(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, 1)

	key := security.SubmissionKey("booking", "jean@example.com")
	svc.mu.Lock()
	svc.inFlight[key] = struct{}{}
	svc.mu.Unlock()

	result := svc.SubmitBooking(context.Background(), validBookingForm())

	assert.Equal(t, models.SubmissionSubmitting, result.State)
	assert.Equal(t, "Une demande est déjà en cours d'envoi.", result.Message)
	assert.Zero(t, store.calls)
}

func TestSubmitBooking_ReleasesInFlightKey(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, 1)

	svc.SubmitBooking(context.Background(), validBookingForm())

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.inFlight)
}

func TestIntPtrToString(t *testing.T) {
	assert.Equal(t, "", intPtrToString(nil))
	n := 42
	assert.Equal(t, "42", intPtrToString(&n))
}
