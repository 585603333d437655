package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/middleware"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
)

// ViewerHandler exposes the per-session presentation state: current
// page, zoom, chat history, and the highlight annotations for the most
// recent answer's excerpts.
type ViewerHandler struct {
	sessionService *service.SessionService
}

func NewViewerHandler(sessionService *service.SessionService) *ViewerHandler {
	return &ViewerHandler{
		sessionService: sessionService,
	}
}

// HandleState returns the full viewer snapshot, annotations included.
func (h *ViewerHandler) HandleState(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	state := session.State()
	if doc := session.Document(); doc != nil {
		annotations, err := service.GenerateAnnotations(doc, session.Sources())
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
			return
		}
		state.Annotations = annotations
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   state,
	})
}

// HandleNextPage advances one page, clamped to the last page.
func (h *ViewerHandler) HandleNextPage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.NextPage()
	h.respondState(c, session)
}

// HandlePrevPage steps back one page, clamped to page 0.
func (h *ViewerHandler) HandlePrevPage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.PrevPage()
	h.respondState(c, session)
}

// HandleGotoPage jumps to a 1-based page number, clamped to the
// document's range.
func (h *ViewerHandler) HandleGotoPage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req types.GotoPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	session.GotoPage(req.Page)
	h.respondState(c, session)
}

// HandleZoom sets the zoom factor, clamped to [0.5, 2.0].
func (h *ViewerHandler) HandleZoom(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req types.ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	session.SetZoom(req.Zoom)
	h.respondState(c, session)
}

func (h *ViewerHandler) session(c *gin.Context) (*service.Session, bool) {
	claims := middleware.UserClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Unauthorized",
		})
		return nil, false
	}
	return h.sessionService.GetOrCreate(claims.ID), true
}

func (h *ViewerHandler) respondState(c *gin.Context, session *service.Session) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   session.State(),
	})
}
