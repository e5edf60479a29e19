package validation

import (
	"djanselme/models"
)

// ValidateNotificationPayload re-validates the inbound email-function body
// against the same constraints as the public forms, discriminated on the
// type field. The function never trusts its caller.
func ValidateNotificationPayload(p models.NotificationPayload) *FieldErrors {
	switch p.Type {
	case models.NotificationTypeBooking:
		_, errs := ValidateBooking(BookingForm{
			Name:        p.Name,
			Email:       p.Email,
			Phone:       p.Phone,
			EventType:   p.EventType,
			EventDate:   p.EventDate,
			GuestCount:  p.GuestCount,
			Venue:       p.Venue,
			BudgetRange: p.BudgetRange,
			Message:     p.Message,
		})
		return errs
	case models.NotificationTypeQuote:
		_, errs := ValidateQuote(QuoteForm{
			BookingForm: BookingForm{
				Name:        p.Name,
				Email:       p.Email,
				Phone:       p.Phone,
				EventType:   p.EventType,
				EventDate:   p.EventDate,
				GuestCount:  p.GuestCount,
				Venue:       p.Venue,
				BudgetRange: p.BudgetRange,
				Message:     p.Message,
			},
			DurationHours:   p.DurationHours,
			SpecialRequests: p.SpecialRequests,
		})
		return errs
	default:
		errs := NewFieldErrors()
		errs.Add("type", "Type de notification invalide")
		return errs
	}
}
