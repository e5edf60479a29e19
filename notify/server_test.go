package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/pocketbase/tools/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"djanselme/config"
	"djanselme/models"
	"djanselme/monitoring"
	"djanselme/security"
)

type fakeMailer struct {
	failOnCall int // 1-based call number that fails, 0 for never

	calls    int
	messages []*mailer.Message
}

func (f *fakeMailer) Send(m *mailer.Message) error {
	f.calls++
	f.messages = append(f.messages, m)
	if f.failOnCall > 0 && f.calls == f.failOnCall {
		return errors.New("smtp unreachable")
	}
	return nil
}

// newTestServer wires the function against a Redis mock with no
// expectations: the anti-bot counter ignores Redis errors and the rate
// limiter falls back to its in-memory window, so tests exercise real
// limiting without a Redis instance.
func newTestServer(m *fakeMailer, limit int) http.Handler {
	db, _ := redismock.NewClientMock()
	limiter := security.NewRateLimiter(db, limit, time.Hour)
	monitor := monitoring.NewMonitor(db)

	cfg := &config.Config{
		OwnerEmail: "owner@example.com",
		FromEmail:  "info@djanselme.com",
		FromName:   "DJ Anselme",
	}

	return NewServer(NewHandler(m, limiter, monitor, cfg))
}

func postNotification(t *testing.T, server http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/send-booking-notification", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func notificationPayload() models.NotificationPayload {
	return models.NotificationPayload{
		Name:      "Jean Dupont",
		Email:     "jean@example.com",
		EventType: "mariage",
		Message:   "Un mariage en septembre, environ 120 invités.",
		Type:      models.NotificationTypeBooking,
	}
}

func TestSendNotification_Success(t *testing.T) {
	m := &fakeMailer{}
	server := newTestServer(m, 3)

	rec := postNotification(t, server, notificationPayload())

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["ownerEmailId"])
	assert.NotEmpty(t, resp["clientEmailId"])

	// owner first, then client confirmation
	require.Equal(t, 2, m.calls)
	assert.Equal(t, "owner@example.com", m.messages[0].To[0].Address)
	assert.Equal(t, "jean@example.com", m.messages[1].To[0].Address)
}

func TestSendNotification_InvalidJSON(t *testing.T) {
	m := &fakeMailer{}
	server := newTestServer(m, 3)

	req := httptest.NewRequest(http.MethodPost, "/send-booking-notification", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, m.calls)
}

func TestSendNotification_ValidationFailure(t *testing.T) {
	m := &fakeMailer{}
	server := newTestServer(m, 3)

	payload := notificationPayload()
	payload.Email = "not-an-email"

	rec := postNotification(t, server, payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string `json:"error"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	require.NotEmpty(t, resp.Details)
	assert.Equal(t, "email", resp.Details[0].Field)
	assert.Zero(t, m.calls)
}

func TestSendNotification_RateLimited(t *testing.T) {
	m := &fakeMailer{}
	server := newTestServer(m, 2)

	payload := notificationPayload()
	for i := 0; i < 2; i++ {
		rec := postNotification(t, server, payload)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := postNotification(t, server, payload)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Too many requests", resp["error"])
	assert.Equal(t, 4, m.calls) // only the two successful requests sent emails
}

func TestSendNotification_RateLimitKeyedPerEmail(t *testing.T) {
	m := &fakeMailer{}
	server := newTestServer(m, 1)

	first := notificationPayload()
	rec := postNotification(t, server, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := notificationPayload()
	second.Email = "autre@example.com"
	rec = postNotification(t, server, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSendNotification_OwnerEmailFailure(t *testing.T) {
	m := &fakeMailer{failOnCall: 1}
	server := newTestServer(m, 3)

	rec := postNotification(t, server, notificationPayload())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, m.calls)
}

func TestSendNotification_ClientEmailFailure(t *testing.T) {
	m := &fakeMailer{failOnCall: 2}
	server := newTestServer(m, 3)

	rec := postNotification(t, server, notificationPayload())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 2, m.calls)
}

func TestSendNotification_SuspiciousUserAgentBlocked(t *testing.T) {
	m := &fakeMailer{}
	server := newTestServer(m, 3)

	body, _ := json.Marshal(notificationPayload())
	req := httptest.NewRequest(http.MethodPost, "/send-booking-notification", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Googlebot/2.1")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, m.calls)
}

func TestServer_CORSPreflight(t *testing.T) {
	server := newTestServer(&fakeMailer{}, 3)

	req := httptest.NewRequest(http.MethodOptions, "/send-booking-notification", nil)
	req.Header.Set("Origin", "https://djanselme.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
