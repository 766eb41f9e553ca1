// Administrative handlers.
//
//   - GET    /admin/data       (every actor and log, unpaginated)
//   - DELETE /admin/logs/{id}  (delete one log row)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claim-gateway/internal/utils"
)

// AdminData godoc
// @ID          adminData
// @Summary     Dump all actors and interaction logs
// @Tags        Admin
// @Produce     json
//
// @Success     200  {object}  services.Snapshot
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/data [get]
func (h *Handlers) AdminData(c *gin.Context) {
	snap, err := h.adminSvc.Snapshot(c.Request.Context())
	if err != nil {
		failFor(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// DeleteLog godoc
// @ID          deleteLog
// @Summary     Delete an interaction log row
// @Description Removes exactly one log row. Referenced actors are untouched.
// @Tags        Admin
//
// @Param       id  path  int  true  "Log id"
//
// @Success     204  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/logs/{id} [delete]
func (h *Handlers) DeleteLog(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "MessageLog not found")
		return
	}
	if err := h.adminSvc.DeleteLog(c.Request.Context(), id); err != nil {
		failFor(c, err)
		return
	}
	noContent(c)
}
