package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"djanselme/models"
	"djanselme/monitoring"
	"djanselme/services"
	"djanselme/utils"
	"djanselme/validation"
)

type AdminHandler struct {
	app     *pocketbase.PocketBase
	pricing services.PricingPolicy
	monitor *monitoring.Monitor
}

func NewAdminHandler(app *pocketbase.PocketBase, pricing services.PricingPolicy, monitor *monitoring.Monitor) *AdminHandler {
	return &AdminHandler{
		app:     app,
		pricing: pricing,
		monitor: monitor,
	}
}

// ---------- booking / quote triage ----------

// ListBookings - all booking requests, newest first, optional ?status=
func (h *AdminHandler) ListBookings(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}
	return h.listRequests(e, "bookings")
}

// ListQuotes - all quote requests, newest first, optional ?status=
func (h *AdminHandler) ListQuotes(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}
	return h.listRequests(e, "quotes")
}

func (h *AdminHandler) listRequests(e *core.RequestEvent, collection string) error {
	filter := ""
	params := dbx.Params{}
	if s := e.Request.URL.Query().Get("status"); s != "" {
		filter = "status = {:status}"
		params["status"] = s
	}

	records, err := h.app.FindRecordsByFilter(collection, filter, "-created", 500, 0, params)
	if err != nil {
		return apis.NewBadRequestError("Failed to list requests", err)
	}

	result := []map[string]any{}
	for _, r := range records {
		result = append(result, r.PublicExport())
	}
	return e.JSON(http.StatusOK, map[string]any{"items": result})
}

// UpdateBookingStatus - triage a booking: pending -> confirmed|rejected
func (h *AdminHandler) UpdateBookingStatus(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}
	return h.updateStatus(e, "bookings")
}

// UpdateQuoteStatus - triage a quote: pending -> confirmed|rejected
func (h *AdminHandler) UpdateQuoteStatus(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}
	return h.updateStatus(e, "quotes")
}

func (h *AdminHandler) updateStatus(e *core.RequestEvent, collection string) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Status != models.RequestStatusConfirmed && req.Status != models.RequestStatusRejected {
		return apis.NewBadRequestError("Statut invalide", nil)
	}

	record, err := h.app.FindRecordById(collection, e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Request not found", err)
	}
	if record.GetString("status") != models.RequestStatusPending {
		return apis.NewBadRequestError("Seules les demandes en attente peuvent être triées", nil)
	}

	record.Set("status", req.Status)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to update status", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"id": record.Id, "status": req.Status})
}

// UpdateQuotePricing - attach/replace the pricing breakdown of a quote.
// Inputs are validated at the boundary; every derived amount is recomputed
// by the calculator and never accepted from the client.
func (h *AdminHandler) UpdateQuotePricing(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	record, err := h.app.FindRecordById("quotes", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Quote not found", err)
	}

	var form validation.QuotePricingForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	draft, errs := validation.ValidateQuotePricing(form)
	if errs != nil && errs.Has() {
		return e.JSON(http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": errs.Details(),
		})
	}

	priced := h.pricing.Recompute(*draft)
	h.monitor.TrackQuoteRecompute()

	extras, err := json.Marshal(priced.ExtraOptions)
	if err != nil {
		return apis.NewBadRequestError("Failed to encode options", err)
	}

	record.Set("equipment_included", priced.EquipmentIncluded)
	record.Set("base_package_with_equipment", priced.BasePackageWithEquipment.InexactFloat64())
	record.Set("base_package_without_equipment", priced.BasePackageWithoutEquipment.InexactFloat64())
	record.Set("venue_distance_km", priced.VenueDistanceKm.InexactFloat64())
	record.Set("travel_fees", priced.TravelFees.InexactFloat64())
	record.Set("dj_animation_included", priced.DjAnimationIncluded)
	record.Set("technical_installation_included", priced.TechnicalInstallationIncluded)
	record.Set("custom_playlist_included", priced.CustomPlaylistIncluded)
	record.Set("extra_options", string(extras))
	record.Set("deposit_percentage", priced.DepositPercentage)
	record.Set("payment_terms", priced.PaymentTerms)
	record.Set("quote_notes", priced.QuoteNotes)
	record.Set("quote_amount", priced.QuoteAmount.InexactFloat64())
	record.Set("deposit_amount", priced.DepositAmount.InexactFloat64())
	record.Set("balance_amount", priced.BalanceAmount.InexactFloat64())
	record.Set("quote_generated_at", time.Now().UTC())

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save pricing", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"id":             record.Id,
		"quote_amount":   priced.QuoteAmount,
		"travel_fees":    priced.TravelFees,
		"deposit_amount": priced.DepositAmount,
		"balance_amount": priced.BalanceAmount,
	})
}

// ---------- events ----------

type eventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Status      string `json:"status"`
}

// CreateEvent - add a public event
func (h *AdminHandler) CreateEvent(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	var req eventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Title == "" || req.Date == "" || req.Venue == "" {
		return apis.NewBadRequestError("Titre, date et salle sont requis", nil)
	}
	if req.Status == "" {
		req.Status = "upcoming"
	}

	collection, err := h.app.FindCollectionByNameOrId("events")
	if err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}

	record := core.NewRecord(collection)
	applyEvent(record, req)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
}

// UpdateEvent - edit a public event
func (h *AdminHandler) UpdateEvent(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	record, err := h.app.FindRecordById("events", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}

	var req eventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	applyEvent(record, req)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to update event", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
}

// DeleteEvent - remove a public event
func (h *AdminHandler) DeleteEvent(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	record, err := h.app.FindRecordById("events", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}
	if err := h.app.Delete(record); err != nil {
		return apis.NewBadRequestError("Failed to delete event", err)
	}
	return e.NoContent(http.StatusNoContent)
}

func applyEvent(record *core.Record, req eventRequest) {
	record.Set("title", req.Title)
	record.Set("date", req.Date)
	record.Set("time", req.Time)
	record.Set("venue", req.Venue)
	record.Set("location", req.Location)
	record.Set("description", req.Description)
	record.Set("price", req.Price)
	if req.Status != "" {
		record.Set("status", req.Status)
	}
}

// ---------- gallery ----------

// UploadGalleryPhoto - multipart photo upload
func (h *AdminHandler) UploadGalleryPhoto(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	files, err := e.FindUploadedFiles("image")
	if err != nil || len(files) == 0 {
		return apis.NewBadRequestError("Aucun fichier sélectionné", err)
	}

	title := e.Request.FormValue("title")
	if title == "" {
		return apis.NewBadRequestError("Le titre est requis", nil)
	}

	collection, err := h.app.FindCollectionByNameOrId("gallery_photos")
	if err != nil {
		return apis.NewBadRequestError("Failed to upload photo", err)
	}

	record := core.NewRecord(collection)
	record.Set("title", title)
	record.Set("event_type", e.Request.FormValue("event_type"))
	record.Set("event_date", e.Request.FormValue("event_date"))
	record.Set("location", e.Request.FormValue("location"))
	record.Set("featured", e.Request.FormValue("featured") == "true")
	record.Set("image", files[0])
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to upload photo", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"id": record.Id, "image_url": fileURL(record, "image")})
}

// DeleteGalleryPhoto - remove a photo and its stored image
func (h *AdminHandler) DeleteGalleryPhoto(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}
	return h.deleteWithFile(e, "gallery_photos", "image")
}

// ---------- audio ----------

// UploadAudio - multipart audio upload with file validation
func (h *AdminHandler) UploadAudio(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	if err := e.Request.ParseMultipartForm(validation.MaxAudioFileSize); err != nil {
		return apis.NewBadRequestError("Invalid upload", err)
	}
	headers := e.Request.MultipartForm.File["file"]
	if len(headers) == 0 {
		return apis.NewBadRequestError("Aucun fichier sélectionné", nil)
	}
	fh := headers[0]

	if err := validation.ValidateAudioFile(fh.Filename, fh.Size, fh.Header.Get("Content-Type")); err != nil {
		return apis.NewBadRequestError(err.Error(), nil)
	}

	meta, errs := validation.ValidateAudioUpload(validation.AudioUploadForm{
		Title:       e.Request.FormValue("title"),
		Description: e.Request.FormValue("description"),
		Genre:       e.Request.FormValue("genre"),
		MixType:     e.Request.FormValue("mix_type"),
		ReleaseDate: e.Request.FormValue("release_date"),
	})
	if errs != nil && errs.Has() {
		return e.JSON(http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": errs.Details(),
		})
	}

	file, err := filesystem.NewFileFromMultipart(fh)
	if err != nil {
		return apis.NewBadRequestError("Invalid upload", err)
	}

	collection, err := h.app.FindCollectionByNameOrId("audio_content")
	if err != nil {
		return apis.NewBadRequestError("Failed to upload audio", err)
	}

	record := core.NewRecord(collection)
	record.Set("title", meta.Title)
	record.Set("description", meta.Description)
	record.Set("genre", meta.Genre)
	record.Set("mix_type", string(meta.MixType))
	record.Set("release_date", meta.ReleaseDate)
	record.Set("file", file)
	record.Set("file_size", fh.Size)
	record.Set("featured", e.Request.FormValue("featured") == "true")
	record.Set("play_count", 0)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to upload audio", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"id": record.Id, "file_url": fileURL(record, "file")})
}

// DeleteAudio - remove a track and its stored file
func (h *AdminHandler) DeleteAudio(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}
	return h.deleteWithFile(e, "audio_content", "file")
}

// deleteWithFile removes a record; the stored binary is released by the
// delete hook registered at startup.
func (h *AdminHandler) deleteWithFile(e *core.RequestEvent, collection, field string) error {
	record, err := h.app.FindRecordById(collection, e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Record not found", err)
	}
	if err := h.app.Delete(record); err != nil {
		return apis.NewBadRequestError("Failed to delete record", err)
	}
	return e.NoContent(http.StatusNoContent)
}

// ---------- mix sessions ----------

// CreateMixSession - resolve the raw embed input and store the session
func (h *AdminHandler) CreateMixSession(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	session, err := h.resolveMixSession(e)
	if err != nil {
		return err
	}

	collection, err := h.app.FindCollectionByNameOrId("mix_sessions")
	if err != nil {
		return apis.NewBadRequestError("Failed to create mix session", err)
	}

	record := core.NewRecord(collection)
	applyMixSession(record, session)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to create mix session", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"id": record.Id, "embed_url": session.EmbedURL})
}

// UpdateMixSession - re-resolve and replace an existing session
func (h *AdminHandler) UpdateMixSession(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	record, err := h.app.FindRecordById("mix_sessions", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Mix session not found", err)
	}

	session, err := h.resolveMixSession(e)
	if err != nil {
		return err
	}

	applyMixSession(record, session)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to update mix session", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"id": record.Id, "embed_url": session.EmbedURL})
}

// DeleteMixSession - remove a session
func (h *AdminHandler) DeleteMixSession(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	record, err := h.app.FindRecordById("mix_sessions", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Mix session not found", err)
	}
	if err := h.app.Delete(record); err != nil {
		return apis.NewBadRequestError("Failed to delete mix session", err)
	}
	return e.NoContent(http.StatusNoContent)
}

// resolveMixSession binds the form, resolves the raw embed input to its
// canonical URL, checks the platform predicate and validates the result.
func (h *AdminHandler) resolveMixSession(e *core.RequestEvent) (*models.MixSession, error) {
	var form validation.MixSessionForm
	if err := e.BindBody(&form); err != nil {
		return nil, apis.NewBadRequestError("Invalid request", err)
	}

	platform := models.Platform(form.Platform)
	resolved, err := utils.ResolveEmbedURL(form.EmbedURL, platform)
	if err != nil || !utils.IsValidEmbedURL(resolved, platform) {
		return nil, apis.NewBadRequestError(
			"Impossible de résoudre l'URL d'embed. Fournissez l'iframe ou l'URL d'embed de la plateforme.",
			map[string]string{"field": "embedUrl"},
		)
	}

	form.EmbedURL = resolved
	session, errs := validation.ValidateMixSession(form)
	if errs != nil && errs.Has() {
		_, msg := errs.First()
		return nil, apis.NewBadRequestError(msg, map[string]any{"details": errs.Details()})
	}
	return session, nil
}

func applyMixSession(record *core.Record, s *models.MixSession) {
	record.Set("title", s.Title)
	record.Set("description", s.Description)
	record.Set("platform", string(s.Platform))
	record.Set("embed_url", s.EmbedURL)
	record.Set("display_order", s.DisplayOrder)
	record.Set("is_active", s.IsActive)
}

// ---------- dashboard ----------

// GetStats - aggregate counts for the admin dashboard
func (h *AdminHandler) GetStats(e *core.RequestEvent) error {
	if err := requireAdmin(h.app, e); err != nil {
		return err
	}

	stats := map[string]any{
		"bookings": h.statusCounts("bookings"),
		"quotes":   h.statusCounts("quotes"),
	}

	for _, table := range []string{"events", "gallery_photos", "mix_sessions", "audio_content"} {
		var row struct {
			Count int `db:"count"`
		}
		if err := h.app.DB().NewQuery("SELECT COUNT(*) as count FROM " + table).One(&row); err == nil {
			stats[table] = row.Count
		}
	}

	var plays struct {
		Total int `db:"total"`
	}
	if err := h.app.DB().NewQuery("SELECT COALESCE(SUM(play_count), 0) as total FROM audio_content").One(&plays); err == nil {
		stats["total_plays"] = plays.Total
	}

	return e.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) statusCounts(table string) map[string]int {
	counts := map[string]int{}
	var rows []dbx.NullStringMap
	if err := h.app.DB().NewQuery(
		"SELECT status, COUNT(*) as n FROM " + table + " GROUP BY status",
	).All(&rows); err != nil {
		return counts
	}
	for _, row := range rows {
		if s := row["status"].String; s != "" {
			n, _ := strconv.Atoi(row["n"].String)
			counts[s] = n
		}
	}
	return counts
}
