package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/middleware"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
)

type AskHandler struct {
	qaService      *service.QAService
	sessionService *service.SessionService
}

func NewAskHandler(qaService *service.QAService, sessionService *service.SessionService) *AskHandler {
	return &AskHandler{
		qaService:      qaService,
		sessionService: sessionService,
	}
}

// HandleAsk answers one question about the session's uploaded document.
// Parse failures of the model output come back as 422 with a retry
// message; the session stays usable either way.
func (h *AskHandler) HandleAsk(c *gin.Context) {
	claims := middleware.UserClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Unauthorized",
		})
		return
	}
	session := h.sessionService.GetOrCreate(claims.ID)

	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	resp, err := h.qaService.Ask(c.Request.Context(), session, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoDocument):
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  false,
				Message: "Please upload a PDF before asking questions.",
			})
		case errors.Is(err, service.ErrAnswerNotParseable), errors.Is(err, service.ErrAnswerSchema):
			c.JSON(http.StatusUnprocessableEntity, types.DataResponse{
				Status:  false,
				Message: "There was an error parsing the response. Please try again.",
			})
		default:
			c.JSON(http.StatusInternalServerError, types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   resp,
	})
}
