package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/middleware"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
)

// DocumentHandler serves the session's uploaded PDF back to the viewer.
type DocumentHandler struct {
	sessionService *service.SessionService
}

func NewDocumentHandler(sessionService *service.SessionService) *DocumentHandler {
	return &DocumentHandler{
		sessionService: sessionService,
	}
}

// ServeDocument streams the current session's PDF inline. The path comes
// from the session, never from the request, so there is nothing to
// traverse.
func (h *DocumentHandler) ServeDocument(c *gin.Context) {
	claims := middleware.UserClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Unauthorized",
		})
		return
	}
	session := h.sessionService.GetOrCreate(claims.ID)

	path := session.FilePath()
	if path == "" {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  false,
			Message: "No document uploaded",
		})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", filepath.Base(session.FileName())))
	c.File(path)
}
