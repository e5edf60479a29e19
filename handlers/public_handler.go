package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"djanselme/models"
	"djanselme/services"
	"djanselme/validation"
)

type PublicHandler struct {
	app        *pocketbase.PocketBase
	submission *services.SubmissionService
}

func NewPublicHandler(app *pocketbase.PocketBase, submission *services.SubmissionService) *PublicHandler {
	return &PublicHandler{
		app:        app,
		submission: submission,
	}
}

// GetEvents - list events for the public site, soonest first
func (h *PublicHandler) GetEvents(e *core.RequestEvent) error {
	records, err := h.app.FindRecordsByFilter("events", "", "date", 100, 0)
	if err != nil {
		return apis.NewBadRequestError("Failed to get events", err)
	}

	result := []map[string]any{}
	for _, r := range records {
		result = append(result, map[string]any{
			"id":          r.Id,
			"title":       r.GetString("title"),
			"date":        r.GetString("date"),
			"time":        r.GetString("time"),
			"venue":       r.GetString("venue"),
			"location":    r.GetString("location"),
			"description": r.GetString("description"),
			"price":       r.GetString("price"),
			"status":      r.GetString("status"),
		})
	}
	return e.JSON(http.StatusOK, map[string]any{"events": result})
}

// GetGallery - list gallery photos, featured first then by display order
func (h *PublicHandler) GetGallery(e *core.RequestEvent) error {
	records, err := h.app.FindRecordsByFilter("gallery_photos", "", "-featured,display_order", 200, 0)
	if err != nil {
		return apis.NewBadRequestError("Failed to get gallery", err)
	}

	result := []map[string]any{}
	for _, r := range records {
		result = append(result, map[string]any{
			"id":            r.Id,
			"title":         r.GetString("title"),
			"image_url":     fileURL(r, "image"),
			"event_type":    r.GetString("event_type"),
			"event_date":    r.GetString("event_date"),
			"location":      r.GetString("location"),
			"featured":      r.GetBool("featured"),
			"display_order": r.GetInt("display_order"),
		})
	}
	return e.JSON(http.StatusOK, map[string]any{"photos": result})
}

// GetMixSessions - list active embedded players in display order
func (h *PublicHandler) GetMixSessions(e *core.RequestEvent) error {
	records, err := h.app.FindRecordsByFilter("mix_sessions", "is_active = true", "display_order", 100, 0)
	if err != nil {
		return apis.NewBadRequestError("Failed to get mix sessions", err)
	}

	result := []map[string]any{}
	for _, r := range records {
		result = append(result, map[string]any{
			"id":            r.Id,
			"title":         r.GetString("title"),
			"description":   r.GetString("description"),
			"platform":      r.GetString("platform"),
			"embed_url":     r.GetString("embed_url"),
			"display_order": r.GetInt("display_order"),
		})
	}
	return e.JSON(http.StatusOK, map[string]any{"sessions": result})
}

// GetAudio - list uploaded audio, newest first
func (h *PublicHandler) GetAudio(e *core.RequestEvent) error {
	records, err := h.app.FindRecordsByFilter("audio_content", "", "-created", 100, 0)
	if err != nil {
		return apis.NewBadRequestError("Failed to get audio content", err)
	}

	result := []map[string]any{}
	for _, r := range records {
		result = append(result, map[string]any{
			"id":               r.Id,
			"title":            r.GetString("title"),
			"description":      r.GetString("description"),
			"genre":            r.GetString("genre"),
			"mix_type":         r.GetString("mix_type"),
			"release_date":     r.GetString("release_date"),
			"file_url":         fileURL(r, "file"),
			"file_size":        r.GetInt("file_size"),
			"duration_seconds": r.GetInt("duration_seconds"),
			"featured":         r.GetBool("featured"),
			"play_count":       r.GetInt("play_count"),
		})
	}
	return e.JSON(http.StatusOK, map[string]any{"tracks": result})
}

// PlayAudio - count one play of a track
func (h *PublicHandler) PlayAudio(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")

	record, err := h.app.FindRecordById("audio_content", id)
	if err != nil {
		return apis.NewNotFoundError("Track not found", err)
	}

	record.Set("play_count", record.GetInt("play_count")+1)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to count play", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"play_count": record.GetInt("play_count")})
}

// SubmitBooking - public booking form, runs the submission pipeline
func (h *PublicHandler) SubmitBooking(e *core.RequestEvent) error {
	var form validation.BookingForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	result := h.submission.SubmitBooking(e.Request.Context(), form)
	return writeSubmissionResult(e, result)
}

// SubmitQuote - public quote form, runs the submission pipeline
func (h *PublicHandler) SubmitQuote(e *core.RequestEvent) error {
	var form validation.QuoteForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	result := h.submission.SubmitQuote(e.Request.Context(), form)
	return writeSubmissionResult(e, result)
}

// writeSubmissionResult maps a terminal pipeline state onto its HTTP
// response. Persistence failures stay generic so backend internals never
// leak to the visitor.
func writeSubmissionResult(e *core.RequestEvent, result models.SubmissionResult) error {
	switch result.State {
	case models.SubmissionDone:
		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"id":      result.RecordID,
			"message": result.Message,
		})
	case models.SubmissionInvalid:
		return e.JSON(http.StatusBadRequest, map[string]any{
			"error":        result.Message,
			"field_errors": result.FieldErrors,
			"first_error":  result.FirstError,
		})
	case models.SubmissionRateLimited, models.SubmissionSubmitting:
		return e.JSON(http.StatusTooManyRequests, map[string]any{
			"error":   "Too many requests",
			"message": result.Message,
		})
	default:
		return e.JSON(http.StatusInternalServerError, map[string]any{
			"error": result.Message,
		})
	}
}

func fileURL(r *core.Record, field string) string {
	name := r.GetString(field)
	if name == "" {
		return ""
	}
	return fmt.Sprintf("/api/files/%s/%s/%s", r.Collection().Name, r.Id, name)
}
