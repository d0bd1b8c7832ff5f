package telegramController

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "webhook-secret"

type stubUpdateHandler struct {
	updates chan *domain.Update
}

func newStubUpdateHandler() *stubUpdateHandler {
	return &stubUpdateHandler{updates: make(chan *domain.Update, 1)}
}

func (h *stubUpdateHandler) HandleUpdate(_ context.Context, update *domain.Update) error {
	h.updates <- update
	return nil
}

func setupRouter(handler UpdateHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(handler, testSecret, slog.Default()).RegisterRoutes(router)
	return router
}

func postWebhook(router *gin.Engine, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookAcceptsValidUpdate(t *testing.T) {
	handler := newStubUpdateHandler()
	router := setupRouter(handler)

	w := postWebhook(router, testSecret, `{"update_id":42,"message":{"message_id":1,"chat":{"id":1001,"type":"private"}}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())

	select {
	case update := <-handler.updates:
		require.Equal(t, int64(42), update.UpdateID)
	case <-time.After(time.Second):
		t.Fatal("update was not handed off for processing")
	}
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	handler := newStubUpdateHandler()
	router := setupRouter(handler)

	w := postWebhook(router, "wrong-secret", `{"update_id":42}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, handler.updates)
}

// Нечитаемое тело подтверждается 200 и выбрасывается: любой другой статус
// зацикливает повторную доставку на стороне Telegram
func TestWebhookAcknowledgesMalformedBody(t *testing.T) {
	handler := newStubUpdateHandler()
	router := setupRouter(handler)

	w := postWebhook(router, testSecret, `{"update_id":`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())
	require.Empty(t, handler.updates)
}
