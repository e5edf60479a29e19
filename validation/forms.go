package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"djanselme/models"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]+$`)
	phoneRe = regexp.MustCompile(`^[0-9+\s\-().]*$`)
	digitRe = regexp.MustCompile(`^\d+$`)

	hasLetterRe = regexp.MustCompile(`[A-Za-z]`)
	hasDigitRe  = regexp.MustCompile(`[0-9]`)
)

// BookingForm is the raw, untrusted input of the public booking form.
// Every field arrives as a string; nothing here is normalized yet.
type BookingForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	EventType   string `json:"event_type"`
	EventDate   string `json:"event_date"`
	GuestCount  string `json:"guest_count"`
	Venue       string `json:"venue"`
	BudgetRange string `json:"budget_range"`
	Message     string `json:"message"`
}

// QuoteForm extends BookingForm with the quote-only fields.
type QuoteForm struct {
	BookingForm
	DurationHours   string `json:"duration_hours"`
	SpecialRequests string `json:"special_requests"`
}

// ValidateBooking validates and normalizes a booking form. It returns
// either a fully normalized record or the complete set of field errors;
// there is no partial success. The raw form is never mutated.
func ValidateBooking(f BookingForm) (*models.Booking, *FieldErrors) {
	errs := NewFieldErrors()

	name := strings.TrimSpace(f.Name)
	email := strings.ToLower(strings.TrimSpace(f.Email))
	phone := strings.TrimSpace(f.Phone)
	venue := strings.TrimSpace(f.Venue)
	message := strings.TrimSpace(f.Message)

	check(errs, "name", name,
		validation.Required.Error("Le nom est requis"),
		validation.RuneLength(0, 100).Error("Le nom est trop long (max 100 caractères)"),
		validation.Match(nameRe).Error("Le nom contient des caractères invalides"),
	)
	check(errs, "email", email,
		validation.Required.Error("L'email est requis"),
		is.EmailFormat.Error("Email invalide"),
		validation.RuneLength(0, 255).Error("Email trop long"),
	)
	check(errs, "phone", phone,
		validation.RuneLength(0, 20).Error("Numéro trop long"),
		validation.Match(phoneRe).Error("Format de téléphone invalide"),
	)
	if !models.IsValidEventType(f.EventType) {
		errs.Add("event_type", "Type d'événement invalide")
	}
	guestCount := validateGuestCount(errs, f.GuestCount)
	check(errs, "venue", venue,
		validation.RuneLength(0, 200).Error("Lieu trop long (max 200 caractères)"),
	)
	check(errs, "message", message,
		validation.Required.Error("Le message doit contenir au moins 10 caractères"),
		validation.RuneLength(10, 0).Error("Le message doit contenir au moins 10 caractères"),
		validation.RuneLength(0, 2000).Error("Message trop long (max 2000 caractères)"),
	)

	if errs.Has() {
		return nil, errs
	}

	return &models.Booking{
		Name:        name,
		Email:       email,
		Phone:       phone,
		EventType:   models.EventType(f.EventType),
		EventDate:   strings.TrimSpace(f.EventDate),
		GuestCount:  guestCount,
		Venue:       venue,
		BudgetRange: strings.TrimSpace(f.BudgetRange),
		Message:     message,
		Status:      models.RequestStatusPending,
	}, nil
}

// ValidateQuote validates and normalizes a quote form.
func ValidateQuote(f QuoteForm) (*models.Quote, *FieldErrors) {
	booking, errs := ValidateBooking(f.BookingForm)
	if errs == nil {
		errs = NewFieldErrors()
	}

	var durationHours *int
	if d := strings.TrimSpace(f.DurationHours); d != "" {
		if !digitRe.MatchString(d) {
			errs.Add("duration_hours", "Durée invalide")
		} else {
			n, err := strconv.Atoi(d)
			if err != nil || n < 1 || n > 72 {
				errs.Add("duration_hours", "Durée invalide")
			} else {
				durationHours = &n
			}
		}
	}

	specialRequests := strings.TrimSpace(f.SpecialRequests)
	check(errs, "special_requests", specialRequests,
		validation.RuneLength(0, 1000).Error("Demandes spéciales trop longues (max 1000 caractères)"),
	)

	if errs.Has() {
		return nil, errs
	}

	return &models.Quote{
		Name:            booking.Name,
		Email:           booking.Email,
		Phone:           booking.Phone,
		EventType:       booking.EventType,
		EventDate:       booking.EventDate,
		GuestCount:      booking.GuestCount,
		Venue:           booking.Venue,
		BudgetRange:     booking.BudgetRange,
		Message:         booking.Message,
		DurationHours:   durationHours,
		SpecialRequests: specialRequests,
		Status:          models.RequestStatusPending,
	}, nil
}

func validateGuestCount(errs *FieldErrors, raw string) *int {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if !digitRe.MatchString(v) {
		errs.Add("guest_count", "Nombre d'invités invalide")
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 10000 {
		errs.Add("guest_count", "Nombre d'invités doit être entre 0 et 10000")
		return nil
	}
	return &n
}

// MixSessionForm is the raw admin input for a mix session. EmbedURL holds
// whatever the admin pasted (iframe snippet or public URL) before the
// resolver runs; ValidateMixSession expects the already resolved URL.
type MixSessionForm struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Platform     string `json:"platform"`
	EmbedURL     string `json:"embedUrl"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}

func ValidateMixSession(f MixSessionForm) (*models.MixSession, *FieldErrors) {
	errs := NewFieldErrors()

	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)
	embedURL := strings.TrimSpace(f.EmbedURL)

	check(errs, "title", title,
		validation.Required.Error("Le titre est requis"),
		validation.RuneLength(0, 200).Error("Titre trop long (max 200 caractères)"),
	)
	check(errs, "description", description,
		validation.RuneLength(0, 2000).Error("Description trop longue (max 2000 caractères)"),
	)
	if !models.IsValidPlatform(f.Platform) {
		errs.Add("platform", "Plateforme invalide")
	}
	validateEmbedURL(errs, embedURL)
	if f.DisplayOrder < 0 {
		errs.Add("displayOrder", "L'ordre doit être positif")
	} else if f.DisplayOrder > 999 {
		errs.Add("displayOrder", "Ordre trop élevé (max 999)")
	}

	if errs.Has() {
		return nil, errs
	}

	return &models.MixSession{
		Title:        title,
		Description:  description,
		Platform:     models.Platform(f.Platform),
		EmbedURL:     embedURL,
		DisplayOrder: f.DisplayOrder,
		IsActive:     f.IsActive,
	}, nil
}

func validateEmbedURL(errs *FieldErrors, embedURL string) {
	if embedURL == "" {
		errs.Add("embedUrl", "L'URL d'embed est requise")
		return
	}
	if len(embedURL) > 500 {
		errs.Add("embedUrl", "URL trop longue")
		return
	}
	u, err := url.Parse(embedURL)
	if err != nil || u.Host == "" {
		errs.Add("embedUrl", "URL invalide")
		return
	}
	if u.Scheme != "https" {
		errs.Add("embedUrl", "L'URL doit commencer par https://")
	}
}

// AudioUploadForm is the metadata part of an audio upload; the file itself
// goes through ValidateAudioFile.
type AudioUploadForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	MixType     string `json:"mix_type"`
	ReleaseDate string `json:"release_date"`
}

func ValidateAudioUpload(f AudioUploadForm) (*models.AudioContent, *FieldErrors) {
	errs := NewFieldErrors()

	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)
	genre := strings.TrimSpace(f.Genre)

	check(errs, "title", title,
		validation.Required.Error("Le titre est requis"),
		validation.RuneLength(0, 200).Error("Titre trop long (max 200 caractères)"),
	)
	check(errs, "description", description,
		validation.RuneLength(0, 2000).Error("Description trop longue (max 2000 caractères)"),
	)
	check(errs, "genre", genre,
		validation.RuneLength(0, 100).Error("Genre trop long (max 100 caractères)"),
	)
	if !models.IsValidMixType(f.MixType) {
		errs.Add("mix_type", "Type de contenu invalide")
	}

	if errs.Has() {
		return nil, errs
	}

	return &models.AudioContent{
		Title:       title,
		Description: description,
		Genre:       genre,
		MixType:     models.MixType(f.MixType),
		ReleaseDate: strings.TrimSpace(f.ReleaseDate),
	}, nil
}

const MaxAudioFileSize = 100 * 1024 * 1024 // 100MB

var allowedAudioTypes = []string{
	"audio/mpeg", "audio/wav", "audio/ogg", "audio/mp3",
	"audio/aac", "audio/flac", "audio/x-m4a",
}

// ValidateAudioFile checks the binary part of an audio upload.
func ValidateAudioFile(filename string, size int64, mimeType string) error {
	if filename == "" || size == 0 {
		return validation.NewError("file_missing", "Aucun fichier sélectionné")
	}
	if size > MaxAudioFileSize {
		return validation.NewError("file_too_large",
			"Fichier trop volumineux (max 100MB)")
	}
	for _, t := range allowedAudioTypes {
		if mimeType == t {
			return nil
		}
	}
	return validation.NewError("file_type_invalid",
		"Type de fichier non autorisé. Formats acceptés: MP3, WAV, OGG, AAC, FLAC, M4A")
}

// SignInForm / SignUpForm are the raw auth inputs.
type SignInForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ValidateSignIn returns the normalized email on success.
func ValidateSignIn(f SignInForm) (string, *FieldErrors) {
	errs := NewFieldErrors()
	email := strings.ToLower(strings.TrimSpace(f.Email))

	check(errs, "email", email,
		validation.Required.Error("L'email est requis"),
		is.EmailFormat.Error("Email invalide"),
		validation.RuneLength(0, 255).Error("Email trop long"),
	)
	check(errs, "password", f.Password,
		validation.Required.Error("Le mot de passe doit contenir au moins 6 caractères"),
		validation.RuneLength(6, 0).Error("Le mot de passe doit contenir au moins 6 caractères"),
		validation.RuneLength(0, 100).Error("Mot de passe trop long"),
	)

	if errs.Has() {
		return "", errs
	}
	return email, nil
}

// ValidateSignUp applies the sign-in rules plus password composition and
// the confirmPassword cross-field rule, whose failure attaches to
// confirmPassword.
func ValidateSignUp(f SignUpForm) (string, *FieldErrors) {
	errs := NewFieldErrors()
	email := strings.ToLower(strings.TrimSpace(f.Email))

	check(errs, "email", email,
		validation.Required.Error("L'email est requis"),
		is.EmailFormat.Error("Email invalide"),
		validation.RuneLength(0, 255).Error("Email trop long"),
	)
	check(errs, "password", f.Password,
		validation.Required.Error("Le mot de passe doit contenir au moins 6 caractères"),
		validation.RuneLength(6, 0).Error("Le mot de passe doit contenir au moins 6 caractères"),
		validation.RuneLength(0, 100).Error("Mot de passe trop long"),
		validation.Match(hasLetterRe).Error("Le mot de passe doit contenir au moins une lettre"),
		validation.Match(hasDigitRe).Error("Le mot de passe doit contenir au moins un chiffre"),
	)
	if f.Password != f.ConfirmPassword {
		errs.Add("confirmPassword", "Les mots de passe ne correspondent pas")
	}

	if errs.Has() {
		return "", errs
	}
	return email, nil
}
