package notify

import (
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/pocketbase/pocketbase/tools/mailer"

	"djanselme/config"
	"djanselme/internal/status"
	"djanselme/models"
	"djanselme/monitoring"
	"djanselme/security"
	"djanselme/utils"
	"djanselme/validation"
)

// Handler implements the transactional email function. It is stateless per
// request: the only state shared across invocations lives in the rate
// limiter's Redis store.
type Handler struct {
	mailer  mailer.Mailer
	limiter *security.RateLimiter
	monitor *monitoring.Monitor
	config  *config.Config
}

func NewHandler(m mailer.Mailer, limiter *security.RateLimiter, monitor *monitoring.Monitor, cfg *config.Config) *Handler {
	return &Handler{
		mailer:  m,
		limiter: limiter,
		monitor: monitor,
		config:  cfg,
	}
}

// NewServer builds the echo instance for the notification function with
// permissive CORS (the browser calls this endpoint cross-origin) and the
// anti-abuse middleware in front of the handler.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}))
	e.Use(h.limiter.AntiBotMiddleware())

	e.POST("/send-booking-notification", h.SendNotification)

	return e
}

// SendNotification re-validates the inbound payload, applies the
// function's own rate limit and sends the owner + client emails. No email
// leaves on any failure path.
func (h *Handler) SendNotification(c echo.Context) error {
	var payload models.NotificationPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "Invalid JSON body",
		})
	}

	slog.Info("notification request received", "type", payload.Type, "email", payload.Email)

	if errs := validation.ValidateNotificationPayload(payload); errs != nil && errs.Has() {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": errs.Details(),
		})
	}

	key := security.NotificationKey(payload.Email, c.RealIP())
	if err := h.limiter.Allow(c.Request().Context(), key); err != nil {
		h.monitor.TrackRateLimit("notification")
		return c.JSON(http.StatusTooManyRequests, map[string]any{
			"error":   "Too many requests",
			"message": "Vous avez déjà envoyé plusieurs demandes dans la dernière heure. Veuillez réessayer plus tard.",
		})
	}

	from := mail.Address{Name: h.config.FromName, Address: h.config.FromEmail}

	ownerMsg := BuildOwnerMessage(payload, from, h.config.OwnerEmail)
	if err := h.mailer.Send(ownerMsg); err != nil {
		slog.Error("owner email failed", "error", err)
		h.monitor.TrackEmail("owner", "failed")
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error": status.ErrNotifyFailed.Error(),
		})
	}
	h.monitor.TrackEmail("owner", "sent")

	clientMsg := BuildClientMessage(payload, from, h.config.FromEmail)
	if err := h.mailer.Send(clientMsg); err != nil {
		slog.Error("client email failed", "error", err)
		h.monitor.TrackEmail("client", "failed")
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error": status.ErrNotifyFailed.Error(),
		})
	}
	h.monitor.TrackEmail("client", "sent")

	ownerID, _ := utils.GenerateCode(8)
	clientID, _ := utils.GenerateCode(8)
	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"ownerEmailId":  ownerID,
		"clientEmailId": clientID,
	})
}

// NewSMTPMailer builds the SMTP client from configuration.
func NewSMTPMailer(cfg *config.Config) mailer.Mailer {
	return &mailer.SMTPClient{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	}
}
