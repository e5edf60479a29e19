package handlers

import (
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"djanselme/validation"
)

type AuthHandler struct {
	app *pocketbase.PocketBase
}

func NewAuthHandler(app *pocketbase.PocketBase) *AuthHandler {
	return &AuthHandler{app: app}
}

// SignIn - validate credentials and issue an auth token
func (h *AuthHandler) SignIn(e *core.RequestEvent) error {
	var form validation.SignInForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	email, errs := validation.ValidateSignIn(form)
	if errs != nil && errs.Has() {
		return e.JSON(http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": errs.Details(),
		})
	}

	record, err := h.app.FindAuthRecordByEmail("users", email)
	if err != nil || !record.ValidatePassword(form.Password) {
		return apis.NewBadRequestError("Email ou mot de passe incorrect", nil)
	}

	token, err := record.NewAuthToken()
	if err != nil {
		return apis.NewBadRequestError("Failed to create session", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":       record.Id,
			"email":    record.Email(),
			"is_admin": IsAdmin(h.app, record),
		},
	})
}

// SignUp - create a user account and issue an auth token
func (h *AuthHandler) SignUp(e *core.RequestEvent) error {
	var form validation.SignUpForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	email, errs := validation.ValidateSignUp(form)
	if errs != nil && errs.Has() {
		return e.JSON(http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": errs.Details(),
		})
	}

	collection, err := h.app.FindCollectionByNameOrId("users")
	if err != nil {
		return apis.NewBadRequestError("Failed to create account", err)
	}

	record := core.NewRecord(collection)
	record.SetEmail(email)
	record.SetPassword(form.Password)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Cet email est déjà utilisé", err)
	}

	token, err := record.NewAuthToken()
	if err != nil {
		return apis.NewBadRequestError("Failed to create session", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":       record.Id,
			"email":    record.Email(),
			"is_admin": false,
		},
	})
}

// SignOut - auth tokens are stateless, the client simply discards its copy
func (h *AuthHandler) SignOut(e *core.RequestEvent) error {
	return e.NoContent(http.StatusNoContent)
}

// Me - return the authenticated user and its role
func (h *AuthHandler) Me(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Authentification requise", nil)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"id":       e.Auth.Id,
		"email":    e.Auth.Email(),
		"is_admin": IsAdmin(h.app, e.Auth),
	})
}

// IsAdmin reports whether the record holds the admin role. Superusers of
// the embedded backend always qualify.
func IsAdmin(app core.App, record *core.Record) bool {
	if record == nil {
		return false
	}
	if record.Collection().Name == core.CollectionNameSuperusers {
		return true
	}
	_, err := app.FindFirstRecordByFilter(
		"user_roles",
		"user = {:user} && role = 'admin'",
		dbx.Params{"user": record.Id},
	)
	return err == nil
}

// requireAdmin guards admin endpoints: 401 without a session, 403 without
// the admin role. No partial data ever leaves on either path.
func requireAdmin(app core.App, e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Authentification requise", nil)
	}
	if !IsAdmin(app, e.Auth) {
		return apis.NewForbiddenError("Accès refusé", nil)
	}
	return nil
}
