package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Collections backing the public site and the back office. Request
// collections (bookings, quotes) are written only through the submission
// pipeline, catalog collections only through the admin endpoints, so no
// record API rules are opened here.
func init() {
	m.Register(func(app core.App) error {
		if err := createBookings(app); err != nil {
			return err
		}
		if err := createQuotes(app); err != nil {
			return err
		}
		if err := createEvents(app); err != nil {
			return err
		}
		if err := createGalleryPhotos(app); err != nil {
			return err
		}
		if err := createMixSessions(app); err != nil {
			return err
		}
		if err := createAudioContent(app); err != nil {
			return err
		}
		return createUserRoles(app)
	}, func(app core.App) error {
		names := []string{
			"user_roles", "audio_content", "mix_sessions",
			"gallery_photos", "events", "quotes", "bookings",
		}
		for _, name := range names {
			collection, err := app.FindCollectionByNameOrId(name)
			if err != nil {
				continue
			}
			if err := app.Delete(collection); err != nil {
				return err
			}
		}
		return nil
	})
}

func requestFields(collection *core.Collection) {
	collection.Fields.Add(
		&core.TextField{Name: "name", Required: true, Max: 100},
		&core.EmailField{Name: "email", Required: true},
		&core.TextField{Name: "phone", Max: 20},
		&core.SelectField{
			Name:      "event_type",
			Required:  true,
			MaxSelect: 1,
			Values: []string{
				"mariage", "anniversaire", "soiree-privee",
				"corporate", "festival", "autre",
			},
		},
		&core.DateField{Name: "event_date"},
		&core.NumberField{Name: "guest_count", OnlyInt: true, Min: types.Pointer(0.0), Max: types.Pointer(10000.0)},
		&core.TextField{Name: "venue", Max: 200},
		&core.TextField{Name: "budget_range", Max: 50},
		&core.TextField{Name: "message", Required: true, Max: 2000},
		&core.SelectField{
			Name:      "status",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"pending", "confirmed", "rejected"},
		},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
}

func createBookings(app core.App) error {
	collection := core.NewBaseCollection("bookings")
	requestFields(collection)
	return app.Save(collection)
}

func createQuotes(app core.App) error {
	collection := core.NewBaseCollection("quotes")
	requestFields(collection)
	collection.Fields.Add(
		&core.NumberField{Name: "duration_hours", OnlyInt: true, Min: types.Pointer(1.0), Max: types.Pointer(72.0)},
		&core.TextField{Name: "special_requests", Max: 1000},

		// manual pricing breakdown, written by the back office only
		&core.BoolField{Name: "equipment_included"},
		&core.NumberField{Name: "base_package_with_equipment", Min: types.Pointer(0.0)},
		&core.NumberField{Name: "base_package_without_equipment", Min: types.Pointer(0.0)},
		&core.NumberField{Name: "venue_distance_km", Min: types.Pointer(0.0)},
		&core.NumberField{Name: "travel_fees", Min: types.Pointer(0.0)},
		&core.BoolField{Name: "dj_animation_included"},
		&core.BoolField{Name: "technical_installation_included"},
		&core.BoolField{Name: "custom_playlist_included"},
		&core.JSONField{Name: "extra_options", MaxSize: 51200},
		&core.NumberField{Name: "deposit_percentage", OnlyInt: true, Min: types.Pointer(0.0), Max: types.Pointer(100.0)},
		&core.TextField{Name: "payment_terms", Max: 1000},
		&core.TextField{Name: "quote_notes", Max: 2000},
		&core.NumberField{Name: "quote_amount", Min: types.Pointer(0.0)},
		&core.NumberField{Name: "deposit_amount", Min: types.Pointer(0.0)},
		&core.NumberField{Name: "balance_amount", Min: types.Pointer(0.0)},
		&core.DateField{Name: "quote_generated_at"},
		&core.DateField{Name: "quote_sent_at"},
	)
	return app.Save(collection)
}

func createEvents(app core.App) error {
	collection := core.NewBaseCollection("events")
	collection.Fields.Add(
		&core.TextField{Name: "title", Required: true, Max: 200},
		&core.TextField{Name: "date", Required: true, Max: 50},
		&core.TextField{Name: "time", Max: 50},
		&core.TextField{Name: "venue", Required: true, Max: 200},
		&core.TextField{Name: "location", Max: 200},
		&core.TextField{Name: "description", Max: 2000},
		&core.TextField{Name: "price", Max: 50},
		&core.SelectField{
			Name:      "status",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"upcoming", "past", "cancelled"},
		},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	return app.Save(collection)
}

func createGalleryPhotos(app core.App) error {
	collection := core.NewBaseCollection("gallery_photos")
	collection.Fields.Add(
		&core.TextField{Name: "title", Required: true, Max: 200},
		&core.FileField{
			Name:      "image",
			Required:  true,
			MaxSelect: 1,
			MaxSize:   10 << 20,
			MimeTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		},
		&core.TextField{Name: "event_type", Max: 50},
		&core.TextField{Name: "event_date", Max: 50},
		&core.TextField{Name: "location", Max: 200},
		&core.BoolField{Name: "featured"},
		&core.NumberField{Name: "display_order", OnlyInt: true},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	return app.Save(collection)
}

func createMixSessions(app core.App) error {
	collection := core.NewBaseCollection("mix_sessions")
	collection.Fields.Add(
		&core.TextField{Name: "title", Required: true, Max: 200},
		&core.TextField{Name: "description", Max: 1000},
		&core.SelectField{
			Name:      "platform",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"hearthis", "youtube", "mixcloud"},
		},
		&core.TextField{Name: "embed_url", Required: true, Max: 500},
		&core.NumberField{Name: "display_order", OnlyInt: true},
		&core.BoolField{Name: "is_active"},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	return app.Save(collection)
}

func createAudioContent(app core.App) error {
	collection := core.NewBaseCollection("audio_content")
	collection.Fields.Add(
		&core.TextField{Name: "title", Required: true, Max: 200},
		&core.TextField{Name: "description", Max: 2000},
		&core.TextField{Name: "genre", Max: 100},
		&core.SelectField{
			Name:      "mix_type",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"original_track", "mix", "podcast", "live_set"},
		},
		&core.TextField{Name: "release_date", Max: 50},
		&core.FileField{
			Name:      "file",
			Required:  true,
			MaxSelect: 1,
			MaxSize:   100 << 20,
			MimeTypes: []string{
				"audio/mpeg", "audio/wav", "audio/x-wav", "audio/mp4",
				"audio/aac", "audio/ogg", "audio/flac",
			},
		},
		&core.NumberField{Name: "file_size", OnlyInt: true},
		&core.NumberField{Name: "duration_seconds", OnlyInt: true},
		&core.BoolField{Name: "featured"},
		&core.NumberField{Name: "play_count", OnlyInt: true},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	return app.Save(collection)
}

func createUserRoles(app core.App) error {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return err
	}

	collection := core.NewBaseCollection("user_roles")
	collection.Fields.Add(
		&core.RelationField{
			Name:          "user",
			Required:      true,
			MaxSelect:     1,
			CollectionId:  users.Id,
			CascadeDelete: true,
		},
		&core.SelectField{
			Name:      "role",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"admin", "moderator"},
		},
		&core.AutodateField{Name: "created", OnCreate: true},
	)
	collection.AddIndex("idx_user_roles_user_role", true, "`user`, `role`", "")
	return app.Save(collection)
}
