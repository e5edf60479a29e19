package models

import (
	"time"
)

type EventType string

const (
	EventTypeMariage      EventType = "mariage"
	EventTypeAnniversaire EventType = "anniversaire"
	EventTypeSoireePrivee EventType = "soiree-privee"
	EventTypeCorporate    EventType = "corporate"
	EventTypeFestival     EventType = "festival"
	EventTypeAutre        EventType = "autre"
)

// EventTypes lists every accepted event type, in display order.
var EventTypes = []EventType{
	EventTypeMariage,
	EventTypeAnniversaire,
	EventTypeSoireePrivee,
	EventTypeCorporate,
	EventTypeFestival,
	EventTypeAutre,
}

func IsValidEventType(v string) bool {
	for _, t := range EventTypes {
		if string(t) == v {
			return true
		}
	}
	return false
}

const (
	RequestStatusPending   = "pending"
	RequestStatusConfirmed = "confirmed"
	RequestStatusRejected  = "rejected"
)

// Booking is a visitor's request to reserve the DJ for an event.
// Status only moves pending -> confirmed|rejected through admin action;
// bookings are never deleted by the application.
type Booking struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	EventType   EventType `json:"event_type"`
	EventDate   string    `json:"event_date,omitempty"`
	GuestCount  *int      `json:"guest_count,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	BudgetRange string    `json:"budget_range,omitempty"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// Quote is a request for a priced proposal. It is a superset of Booking;
// once triaged an admin attaches a QuotePricing breakdown.
type Quote struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	EventType       EventType `json:"event_type"`
	EventDate       string    `json:"event_date,omitempty"`
	GuestCount      *int      `json:"guest_count,omitempty"`
	Venue           string    `json:"venue,omitempty"`
	BudgetRange     string    `json:"budget_range,omitempty"`
	Message         string    `json:"message"`
	DurationHours   *int      `json:"duration_hours,omitempty"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	Status          string    `json:"status"`
	Pricing         *QuotePricing `json:"pricing,omitempty"`
	Created         time.Time `json:"created"`
	Updated         time.Time `json:"updated"`
}

// NotificationPayload is the JSON body sent to the email function after a
// booking or quote has been persisted. Type discriminates the two shapes.
type NotificationPayload struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	EventType       string `json:"event_type"`
	EventDate       string `json:"event_date,omitempty"`
	GuestCount      string `json:"guest_count,omitempty"`
	Venue           string `json:"venue,omitempty"`
	BudgetRange     string `json:"budget_range,omitempty"`
	Message         string `json:"message"`
	DurationHours   string `json:"duration_hours,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
	Type            string `json:"type"` // booking | quote
}

const (
	NotificationTypeBooking = "booking"
	NotificationTypeQuote   = "quote"
)
