// API-key channel handlers.
//
//   - POST   /keys       (issue an API key)
//   - POST   /messages   (generate a reply)
//   - POST   /verify     (fact-check a claim)
//
// The API key travels in the JSON body; the X-API-Key header is accepted as
// a fallback so that keys can stay out of request bodies that get logged
// upstream.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey is the optional header carrying the API key.
const HeaderAPIKey = "X-API-Key"

//
// DTOs
//

// IssueKeyRequest is the payload of the key issuance endpoint.
type IssueKeyRequest struct {
	CompanyName string `json:"company_name" binding:"required" example:"Acme Media"`
}

// IssueKeyResponse carries the freshly minted key.
type IssueKeyResponse struct {
	APIKey string `json:"api_key" example:"5f0c6a2e-7d4b-4a8e-9a51-3c1f0b2d9e77"`
}

// APIMessageRequest is the payload of the API message endpoint.
type APIMessageRequest struct {
	APIKey  string `json:"api_key" example:"5f0c6a2e-7d4b-4a8e-9a51-3c1f0b2d9e77"`
	Message string `json:"message" binding:"required" example:"Summarize the claim that 5G spreads viruses."`
}

// APIVerifyRequest is the payload of the API verify endpoint.
type APIVerifyRequest struct {
	APIKey string `json:"api_key" example:"5f0c6a2e-7d4b-4a8e-9a51-3c1f0b2d9e77"`
	Claim  string `json:"claim" binding:"required" example:"The earth is flat."`
}

// apiKeyFrom prefers the body value and falls back to the header.
func apiKeyFrom(c *gin.Context, body string) string {
	if k := strings.TrimSpace(body); k != "" {
		return k
	}
	return strings.TrimSpace(c.GetHeader(HeaderAPIKey))
}

//
// Handlers
//

// IssueKey godoc
// @ID          issueApiKey
// @Summary     Issue an API key
// @Description Registers a new API client for company_name and returns its key.
// @Tags        API
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.IssueKeyRequest  true  "Company"
//
// @Success     200  {object}  handlers.IssueKeyResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /keys [post]
func (h *Handlers) IssueKey(c *gin.Context) {
	var req IssueKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "company_name is required")
		return
	}
	a, err := h.apiSvc.IssueAPIKey(c.Request.Context(), req.CompanyName)
	if err != nil {
		failFor(c, err)
		return
	}
	ok(c, http.StatusOK, IssueKeyResponse{APIKey: a.APIKey})
}

// APIMessage godoc
// @ID          apiMessage
// @Summary     Generate a reply for an API client
// @Tags        API
// @Accept      json
// @Produce     json
//
// @Param       X-API-Key  header  string                      false  "API key (if not in body)"
// @Param       body       body    handlers.APIMessageRequest  true   "Message"
//
// @Success     200  {object}  services.APIMessageResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid API key"
// @Failure     502  {object}  handlers.ErrorResponse  "Responder failure"
// @Router      /messages [post]
func (h *Handlers) APIMessage(c *gin.Context) {
	var req APIMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	}
	key := apiKeyFrom(c, req.APIKey)
	if key == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "api_key is required")
		return
	}
	res, err := h.apiSvc.APIMessage(c.Request.Context(), key, req.Message)
	if err != nil {
		failFor(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// APIVerify godoc
// @ID          apiVerify
// @Summary     Fact-check a claim for an API client
// @Description Returns the verifier result verbatim (final_verdict, explainable_confidence_score, top_evidence_snippet, ...).
// @Tags        API
// @Accept      json
// @Produce     json
//
// @Param       X-API-Key  header  string                     false  "API key (if not in body)"
// @Param       body       body    handlers.APIVerifyRequest  true   "Claim"
//
// @Success     200  {object}  map[string]interface{}
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid API key"
// @Failure     502  {object}  handlers.ErrorResponse  "Verifier failure"
// @Router      /verify [post]
func (h *Handlers) APIVerify(c *gin.Context) {
	var req APIVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "claim is required")
		return
	}
	key := apiKeyFrom(c, req.APIKey)
	if key == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "api_key is required")
		return
	}
	res, err := h.apiSvc.APIVerify(c.Request.Context(), key, req.Claim)
	if err != nil {
		failFor(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", res.Raw())
}
