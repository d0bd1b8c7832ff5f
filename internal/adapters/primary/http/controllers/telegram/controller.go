package telegramController

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"log/slog"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/gin-gonic/gin"
)

// UpdateHandler абстракция над telegram-сервисом для обработки обновлений
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *domain.Update) error
}

// Время на асинхронную обработку одного webhook-обновления
const updateProcessTimeout = 30 * time.Second

type Controller struct {
	handler       UpdateHandler
	webhookSecret string
	log           *slog.Logger
}

func New(handler UpdateHandler, webhookSecret string, log *slog.Logger) *Controller {
	return &Controller{
		handler:       handler,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhook", c.handleWebhook)
}

func (c *Controller) handleWebhook(ctx *gin.Context) {
	secretToken := ctx.GetHeader("X-Telegram-Bot-Api-Secret-Token")
	if subtle.ConstantTimeCompare([]byte(secretToken), []byte(c.webhookSecret)) != 1 {
		c.log.Warn("webhook secret token mismatch", "client_ip", ctx.ClientIP())
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
		return
	}

	// После проверки секрета отвечаем только 200: любой другой статус
	// заставляет Telegram доставлять то же обновление снова и снова.
	// Нечитаемое тело логируем и выбрасываем.
	var update domain.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		c.log.Error("failed to bind webhook request, dropping update", "error", err)
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	c.log.Debug("received webhook update", "update_id", update.UpdateID)

	// Отвечаем 200 сразу, обрабатываем в фоне: иначе Telegram
	// повторяет доставку, пока не получит ответ
	go func() {
		procCtx, cancel := context.WithTimeout(context.Background(), updateProcessTimeout)
		defer cancel()

		if err := c.handler.HandleUpdate(procCtx, &update); err != nil {
			c.log.Error("failed to handle update",
				"error", err,
				"update_id", update.UpdateID,
			)
		}
	}()

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
