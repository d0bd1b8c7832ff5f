package telegram

import (
	"context"
	"fmt"
)

// LabeledPrice представляет цену в invoice
type LabeledPrice struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"` // для Stars - количество звёзд
}

// SendInvoiceRequest запрос на отправку invoice (для Telegram Stars)
// Документация: https://core.telegram.org/bots/api#sendinvoice
type SendInvoiceRequest struct {
	ChatID        int64          `json:"chat_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Payload       string         `json:"payload"`                  // уникальный payload для идентификации платежа
	ProviderToken string         `json:"provider_token,omitempty"` // для Stars не нужен
	Currency      string         `json:"currency"`                 // "XTR"
	Prices        []LabeledPrice `json:"prices"`
}

// SendInvoiceResult результат отправки invoice
type SendInvoiceResult struct {
	MessageID int64 `json:"message_id"`
}

// SendInvoiceResponse ответ от Telegram API на sendInvoice
type SendInvoiceResponse struct {
	APIResponse
	Result SendInvoiceResult `json:"result"`
}

// SendInvoice отправляет invoice пользователю (для Telegram Stars)
func (c *Client) SendInvoice(ctx context.Context, req SendInvoiceRequest) (int64, error) {
	var apiResp SendInvoiceResponse
	if err := c.postJSON(ctx, "/sendInvoice", req, &apiResp); err != nil {
		c.log.Error("failed to send invoice",
			"error", err,
			"chat_id", req.ChatID,
		)
		return 0, err
	}

	if !apiResp.OK {
		c.log.Debug("telegram sendInvoice API error",
			"error_code", apiResp.ErrorCode,
			"description", apiResp.Description,
			"chat_id", req.ChatID,
		)
		return 0, fmt.Errorf("telegram API error [code=%d, chat_id=%d]: %s",
			apiResp.ErrorCode, req.ChatID, apiResp.Description)
	}

	c.log.Debug("invoice sent successfully",
		"chat_id", req.ChatID,
		"message_id", apiResp.Result.MessageID,
	)

	return apiResp.Result.MessageID, nil
}

// CreateInvoiceLinkRequest запрос на создание ссылки на invoice
// Документация: https://core.telegram.org/bots/api#createinvoicelink
type CreateInvoiceLinkRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Payload     string         `json:"payload"`
	Currency    string         `json:"currency"`
	Prices      []LabeledPrice `json:"prices"`
}

// CreateInvoiceLinkResponse ответ от Telegram API на createInvoiceLink
type CreateInvoiceLinkResponse struct {
	APIResponse
	Result string `json:"result"` // ссылка на invoice
}

// CreateInvoiceLink создаёт ссылку на invoice, которую мини-апп открывает сам
func (c *Client) CreateInvoiceLink(ctx context.Context, req CreateInvoiceLinkRequest) (string, error) {
	var apiResp CreateInvoiceLinkResponse
	if err := c.postJSON(ctx, "/createInvoiceLink", req, &apiResp); err != nil {
		c.log.Error("failed to create invoice link", "error", err)
		return "", err
	}

	if !apiResp.OK {
		c.log.Debug("telegram createInvoiceLink API error",
			"error_code", apiResp.ErrorCode,
			"description", apiResp.Description,
		)
		return "", fmt.Errorf("telegram API error [code=%d]: %s",
			apiResp.ErrorCode, apiResp.Description)
	}

	c.log.Debug("invoice link created successfully")
	return apiResp.Result, nil
}

// AnswerPreCheckoutQueryRequest запрос на ответ pre_checkout_query
type AnswerPreCheckoutQueryRequest struct {
	PreCheckoutQueryID string  `json:"pre_checkout_query_id"`
	OK                 bool    `json:"ok"`
	ErrorMessage       *string `json:"error_message,omitempty"` // сообщение об ошибке (если ok=false)
}

// AnswerPreCheckoutQuery отвечает на pre_checkout_query (подтверждает или отклоняет платёж)
// Документация: https://core.telegram.org/bots/api#answerprecheckoutquery
func (c *Client) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage *string) error {
	reqBody := AnswerPreCheckoutQueryRequest{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
		ErrorMessage:       errorMessage,
	}

	var apiResp APIResponse
	if err := c.postJSON(ctx, "/answerPreCheckoutQuery", reqBody, &apiResp); err != nil {
		c.log.Error("failed to answer pre_checkout_query",
			"error", err,
			"query_id", queryID,
		)
		return err
	}

	if !apiResp.OK {
		c.log.Debug("telegram answerPreCheckoutQuery API error",
			"error_code", apiResp.ErrorCode,
			"description", apiResp.Description,
			"query_id", queryID,
		)
		return fmt.Errorf("telegram API error [code=%d, query_id=%s]: %s",
			apiResp.ErrorCode, queryID, apiResp.Description)
	}

	c.log.Debug("pre_checkout_query answered successfully",
		"query_id", queryID,
		"ok", ok,
	)
	return nil
}
