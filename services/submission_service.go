package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	pubnub "github.com/pubnub/go"

	"djanselme/config"
	"djanselme/internal/status"
	"djanselme/models"
	"djanselme/monitoring"
	"djanselme/security"
	"djanselme/validation"
)

// RecordStore is the narrow persistence interface the pipeline writes
// through. Insert returns the new record id, or an error that may carry a
// rate-limit signature.
type RecordStore interface {
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
}

// Notifier delivers the post-persistence email notification. Failures are
// logged by the pipeline and never propagated to the submitter.
type Notifier interface {
	Send(ctx context.Context, payload models.NotificationPayload) error
}

// SubmissionService runs the booking/quote submission pipeline:
// validate -> persist -> notify -> report. One submission is in flight per
// (form, email) key at a time; duplicates are rejected without touching
// the store.
type SubmissionService struct {
	store    RecordStore
	notifier Notifier
	limiter  *security.RateLimiter
	pubnub   *pubnub.PubNub
	monitor  *monitoring.Monitor
	config   *config.Config

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewSubmissionService(
	store RecordStore,
	notifier Notifier,
	limiter *security.RateLimiter,
	pn *pubnub.PubNub,
	monitor *monitoring.Monitor,
	cfg *config.Config,
) *SubmissionService {
	return &SubmissionService{
		store:    store,
		notifier: notifier,
		limiter:  limiter,
		pubnub:   pn,
		monitor:  monitor,
		config:   cfg,
		inFlight: make(map[string]struct{}),
	}
}

// SubmitBooking runs a booking form through the pipeline.
func (s *SubmissionService) SubmitBooking(ctx context.Context, form validation.BookingForm) models.SubmissionResult {
	booking, errs := validation.ValidateBooking(form)
	if errs != nil && errs.Has() {
		return s.invalid("booking", errs)
	}

	fields := map[string]any{
		"name":         booking.Name,
		"email":        booking.Email,
		"phone":        booking.Phone,
		"event_type":   string(booking.EventType),
		"event_date":   booking.EventDate,
		"venue":        booking.Venue,
		"budget_range": booking.BudgetRange,
		"message":      booking.Message,
		"status":       booking.Status,
	}
	if booking.GuestCount != nil {
		fields["guest_count"] = *booking.GuestCount
	}

	payload := models.NotificationPayload{
		Name:        booking.Name,
		Email:       booking.Email,
		Phone:       booking.Phone,
		EventType:   string(booking.EventType),
		EventDate:   booking.EventDate,
		GuestCount:  intPtrToString(booking.GuestCount),
		Venue:       booking.Venue,
		BudgetRange: booking.BudgetRange,
		Message:     booking.Message,
		Type:        models.NotificationTypeBooking,
	}

	return s.submit(ctx, "bookings", "booking", booking.Email, fields, payload,
		"Votre demande de réservation a été envoyée. Nous vous recontacterons rapidement.")
}

// SubmitQuote runs a quote form through the pipeline.
func (s *SubmissionService) SubmitQuote(ctx context.Context, form validation.QuoteForm) models.SubmissionResult {
	quote, errs := validation.ValidateQuote(form)
	if errs != nil && errs.Has() {
		return s.invalid("quote", errs)
	}

	fields := map[string]any{
		"name":             quote.Name,
		"email":            quote.Email,
		"phone":            quote.Phone,
		"event_type":       string(quote.EventType),
		"event_date":       quote.EventDate,
		"venue":            quote.Venue,
		"budget_range":     quote.BudgetRange,
		"message":          quote.Message,
		"special_requests": quote.SpecialRequests,
		"status":           quote.Status,
	}
	if quote.GuestCount != nil {
		fields["guest_count"] = *quote.GuestCount
	}
	if quote.DurationHours != nil {
		fields["duration_hours"] = *quote.DurationHours
	}

	payload := models.NotificationPayload{
		Name:            quote.Name,
		Email:           quote.Email,
		Phone:           quote.Phone,
		EventType:       string(quote.EventType),
		EventDate:       quote.EventDate,
		GuestCount:      intPtrToString(quote.GuestCount),
		Venue:           quote.Venue,
		BudgetRange:     quote.BudgetRange,
		Message:         quote.Message,
		DurationHours:   intPtrToString(quote.DurationHours),
		SpecialRequests: quote.SpecialRequests,
		Type:            models.NotificationTypeQuote,
	}

	return s.submit(ctx, "quotes", "quote", quote.Email, fields, payload,
		"Votre demande de devis a été envoyée. Nous vous recontacterons rapidement.")
}

func (s *SubmissionService) invalid(form string, errs *validation.FieldErrors) models.SubmissionResult {
	s.monitor.TrackSubmission(form, string(models.SubmissionInvalid))
	_, first := errs.First()
	return models.SubmissionResult{
		State:       models.SubmissionInvalid,
		Message:     "Veuillez corriger les champs en erreur.",
		FieldErrors: errs.Map(),
		FirstError:  first,
	}
}

func (s *SubmissionService) submit(
	ctx context.Context,
	collection, form, email string,
	fields map[string]any,
	payload models.NotificationPayload,
	successMessage string,
) models.SubmissionResult {
	key := security.SubmissionKey(form, email)

	if !s.acquire(key) {
		return models.SubmissionResult{
			State:   models.SubmissionSubmitting,
			Message: "Une demande est déjà en cours d'envoi.",
		}
	}
	defer s.release(key)

	if err := s.limiter.Allow(ctx, key); err != nil {
		return s.rateLimited(form)
	}

	insertCtx, cancel := context.WithTimeout(ctx, s.config.SubmitTimeout)
	defer cancel()

	recordID, err := s.store.Insert(insertCtx, collection, fields)
	if err != nil {
		if status.IsRateLimited(err) {
			return s.rateLimited(form)
		}
		slog.Error("submission persist failed", "form", form, "error", err)
		s.monitor.TrackSubmission(form, string(models.SubmissionPersistFailed))
		return models.SubmissionResult{
			State:   models.SubmissionPersistFailed,
			Message: "Une erreur est survenue lors de l'envoi. Veuillez réessayer.",
		}
	}

	// persisted; realtime publish and email are both best-effort from here
	s.publishAdminEvent(form, recordID, payload)

	notifyCtx, cancelNotify := context.WithTimeout(ctx, s.config.SubmitTimeout)
	defer cancelNotify()

	if err := s.notifier.Send(notifyCtx, payload); err != nil {
		slog.Error("notification delivery failed", "form", form, "record_id", recordID, "error", err)
		s.monitor.TrackEmail(form, "failed")
	} else {
		s.monitor.TrackEmail(form, "sent")
	}

	s.monitor.TrackSubmission(form, string(models.SubmissionDone))
	return models.SubmissionResult{
		State:    models.SubmissionDone,
		RecordID: recordID,
		Message:  successMessage,
	}
}

func (s *SubmissionService) rateLimited(form string) models.SubmissionResult {
	s.monitor.TrackSubmission(form, string(models.SubmissionRateLimited))
	s.monitor.TrackRateLimit("persistence")
	return models.SubmissionResult{
		State: models.SubmissionRateLimited,
		Message: fmt.Sprintf(
			"Vous avez déjà envoyé %d demandes dans la dernière heure. Veuillez réessayer plus tard.",
			s.config.SubmissionLimit),
	}
}

func (s *SubmissionService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *SubmissionService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func (s *SubmissionService) publishAdminEvent(form, recordID string, payload models.NotificationPayload) {
	if s.pubnub == nil {
		return
	}
	s.pubnub.Publish().
		Channel("admin-notifications").
		Message(map[string]any{
			"type":       "new_" + form,
			"record_id":  recordID,
			"name":       payload.Name,
			"event_type": payload.EventType,
		}).
		Execute()
}

func intPtrToString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
