// Chat HTTP handlers.
//
// This file exposes the web chat channel:
//   - POST   /chat          (JSON message)
//   - POST   /chat/upload   (multipart message + document)
//
// and wires the Handlers type shared by every channel. Handlers are
// transport-thin: they bind input, call the gateway service, and translate
// results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claim-gateway/internal/analysis"
	"github.com/tbourn/claim-gateway/internal/domain"
	"github.com/tbourn/claim-gateway/internal/http/middleware"
	"github.com/tbourn/claim-gateway/internal/services"
)

//
// Service contracts (context-aware)
//

// ChatService answers the web chat channel.
type ChatService interface {
	// Chat answers message for the session.
	Chat(ctx context.Context, sessionID, message string) (string, error)
	// ChatUpload answers message plus the text of an uploaded document.
	ChatUpload(ctx context.Context, sessionID, message, fileName string, data []byte) (string, error)
}

// TelegramService handles Telegram webhook updates.
type TelegramService interface {
	Telegram(ctx context.Context, u services.TelegramUpdate) (services.TelegramResult, error)
}

// APIService serves API-key clients.
type APIService interface {
	APIMessage(ctx context.Context, apiKey, message string) (services.APIMessageResult, error)
	APIVerify(ctx context.Context, apiKey, claim string) (analysis.Verification, error)
	IssueAPIKey(ctx context.Context, companyName string) (*domain.APIActor, error)
}

// AdminService exposes the administrative views over actors and logs.
type AdminService interface {
	Snapshot(ctx context.Context) (services.Snapshot, error)
	DeleteLog(ctx context.Context, id uint) error
}

// Gateway is everything the HTTP layer needs; *services.GatewayService
// implements it.
type Gateway interface {
	ChatService
	TelegramService
	APIService
	AdminService
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of every channel.
type Handlers struct {
	chatSvc  ChatService
	tgSvc    TelegramService
	apiSvc   APIService
	adminSvc AdminService

	// maxUpload caps the size of a chat upload in bytes.
	maxUpload int64
}

// DefaultMaxUpload is used when New receives a non-positive upload limit.
const DefaultMaxUpload = 10 << 20

// New constructs Handlers bound to gw.
func New(gw Gateway, maxUpload int64) *Handlers {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &Handlers{chatSvc: gw, tgSvc: gw, apiSvc: gw, adminSvc: gw, maxUpload: maxUpload}
}

//
// DTOs
//

// ChatRequest is the JSON payload of the chat endpoint.
type ChatRequest struct {
	Message string `json:"message" binding:"required" example:"Is it true that drinking hot water cures malaria?"`
}

// ChatResponse carries the generated reply.
type ChatResponse struct {
	Response string `json:"response" example:"No. Malaria is treated with antimalarial medicines..."`
}

//
// Handlers
//

// Chat godoc
// @ID          chat
// @Summary     Send a chat message
// @Description Answers a message for the caller's session. The session is carried by the sessionid cookie (issued on first contact) or the X-Session-ID header.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       X-Session-ID  header  string                 false  "Explicit session key"
// @Param       body          body    handlers.ChatRequest   true   "Chat payload"
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse  "Responder failure"
// @Router      /chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	}
	out, err := h.chatSvc.Chat(c.Request.Context(), middleware.SessionID(c), req.Message)
	if err != nil {
		failFor(c, err)
		return
	}
	ok(c, http.StatusOK, ChatResponse{Response: out})
}

// ChatUpload godoc
// @ID          chatUpload
// @Summary     Send a chat message with a document
// @Description Extracts text from the uploaded file (PDF, DOCX, or plain text) and answers it, appended to the optional message after a blank line.
// @Tags        Chat
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       X-Session-ID  header    string  false  "Explicit session key"
// @Param       message       formData  string  false  "Optional message"
// @Param       file          formData  file    true   "Document"
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or unreadable file"
// @Failure     502  {object}  handlers.ErrorResponse  "Responder failure"
// @Router      /chat/upload [post]
func (h *Handlers) ChatUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file is required")
		return
	}
	if fh.Size > h.maxUpload {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, services.ErrUnreadableFile.Error())
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, services.ErrUnreadableFile.Error())
		return
	}
	if int64(len(data)) > h.maxUpload {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file too large")
		return
	}

	out, err := h.chatSvc.ChatUpload(c.Request.Context(), middleware.SessionID(c), c.PostForm("message"), fh.Filename, data)
	if err != nil {
		failFor(c, err)
		return
	}
	ok(c, http.StatusOK, ChatResponse{Response: out})
}
