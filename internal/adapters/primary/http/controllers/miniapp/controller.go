package miniappController

import (
	"context"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/Andrey15243/Pin/internal/ports/service"
	"github.com/gin-gonic/gin"
)

// BoostStatusProvider отдаёт статус Boost для мини-аппа
type BoostStatusProvider interface {
	GetBoostStatus(ctx context.Context, telegramID int64) (bool, error)
}

// Controller HTTP-мост для мини-аппа: статус Boost и ссылки на invoice
type Controller struct {
	boostStatus    BoostStatusProvider
	paymentService service.IPaymentService
	log            *slog.Logger
}

func New(boostStatus BoostStatusProvider, paymentService service.IPaymentService, log *slog.Logger) *Controller {
	return &Controller{
		boostStatus:    boostStatus,
		paymentService: paymentService,
		log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/boost-status/:userId", c.getBoostStatus)
	router.POST("/create-invoice", c.createInvoice(domain.ProductBoost))
	router.POST("/create-donate-invoice", c.createInvoice(domain.ProductDonate))
	router.POST("/create-energy-invoice", c.createInvoice(domain.ProductEnergy))
}

// getBoostStatus всегда отвечает 200: для неизвестного пользователя,
// кривого id или ошибки хранилища возвращаем boost=false
func (c *Controller) getBoostStatus(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusOK, gin.H{"boost": false})
		return
	}

	boost, err := c.boostStatus.GetBoostStatus(ctx.Request.Context(), userID)
	if err != nil {
		c.log.Error("failed to get boost status",
			"error", err,
			"user_id", userID,
		)
		ctx.JSON(http.StatusOK, gin.H{"boost": false})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"boost": boost})
}

// createInvoiceRequest тело запроса от мини-аппа
type createInvoiceRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

func (c *Controller) createInvoice(kind domain.ProductKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req createInvoiceRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		link, err := c.paymentService.CreateInvoiceLink(ctx.Request.Context(), kind, req.UserID)
		if err != nil {
			c.log.Error("failed to create invoice link",
				"error", err,
				"kind", string(kind),
				"user_id", req.UserID,
			)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invoice"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"invoiceLink": link})
	}
}
