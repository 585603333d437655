package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/database"
	"github.com/haodang/chatpdf-be/middleware"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
)

// SearchHandler runs a raw similarity search inside the session's
// document, bypassing the answering engine. Useful for debugging what
// the retriever would feed the model.
type SearchHandler struct {
	vectorStore    database.VectorStore
	sessionService *service.SessionService
}

func NewSearchHandler(vectorStore database.VectorStore, sessionService *service.SessionService) *SearchHandler {
	return &SearchHandler{
		vectorStore:    vectorStore,
		sessionService: sessionService,
	}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	claims := middleware.UserClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Unauthorized",
		})
		return
	}
	session := h.sessionService.GetOrCreate(claims.ID)
	if session.Fingerprint() == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Please upload a PDF before searching.",
		})
		return
	}

	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if req.Limit == 0 {
		req.Limit = 5
	}

	chunks, err := h.vectorStore.SearchSimilar(c.Request.Context(), session.Fingerprint(), req.Query, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Search failed: " + err.Error(),
		})
		return
	}

	out := make([]types.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, types.ScoredChunk{
			Content:  chunk.Document.Content,
			Page:     chunk.Document.Metadata.Page,
			Distance: chunk.Distance,
		})
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   types.SearchResponse{Chunks: out},
	})
}
