// Telegram webhook handler.
//
//   - POST   /telegram/webhook
//
// The webhook acknowledges every well-formed update with {"ok": true}.
// Analysis failures are answered to the user by the service (apology text)
// and never reach Telegram as an HTTP error, which would trigger redelivery.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claim-gateway/internal/http/middleware"
	"github.com/tbourn/claim-gateway/internal/services"
)

const invalidTelegramPayload = "Invalid Telegram payload"

// WebhookAck is the body returned to Telegram.
type WebhookAck struct {
	OK bool `json:"ok" example:"true"`
}

// TelegramWebhook godoc
// @ID          telegramWebhook
// @Summary     Telegram bot webhook
// @Description Receives a Telegram update, analyzes message.text, and replies to the chat through the Bot API on a best-effort basis.
// @Tags        Telegram
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.TelegramUpdate  true  "Telegram update"
//
// @Success     200  {object}  handlers.WebhookAck
// @Failure     400  {object}  handlers.ErrorResponse  "Missing message.chat.id or message.text"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /telegram/webhook [post]
func (h *Handlers) TelegramWebhook(c *gin.Context) {
	var u services.TelegramUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, invalidTelegramPayload)
		return
	}
	res, err := h.tgSvc.Telegram(c.Request.Context(), u)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPayload) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, invalidTelegramPayload)
			return
		}
		failFor(c, err)
		return
	}
	if res.Failed {
		middleware.LoggerFrom(c).Info().Int64("chat_id", res.ChatID).Msg("telegram update answered with apology")
	}
	ok(c, http.StatusOK, WebhookAck{OK: true})
}
