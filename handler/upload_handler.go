package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/middleware"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
)

type UploadHandler struct {
	fileService    *service.FileService
	sessionService *service.SessionService
}

func NewUploadHandler(fileService *service.FileService, sessionService *service.SessionService) *UploadHandler {
	return &UploadHandler{
		fileService:    fileService,
		sessionService: sessionService,
	}
}

// UploadDocumentHandler accepts a multipart PDF upload and streams
// processing status as server-sent events. The final event carries the
// upload result or the failure message.
func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	claims := middleware.UserClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Unauthorized",
		})
		return
	}
	session := h.sessionService.GetOrCreate(claims.ID)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	statusChan := make(chan types.ProcessingDocumentStatus)
	type uploadResult struct {
		resp *types.UploadResponse
		err  error
	}
	resultChan := make(chan uploadResult, 1)
	go func() {
		resp, err := h.fileService.ProcessUpload(c.Request.Context(), session, header, statusChan)
		resultChan <- uploadResult{resp: resp, err: err}
	}()

	clientGone := c.Writer.CloseNotify()
	for {
		select {
		case <-clientGone:
			return // Client disconnected
		case status, ok := <-statusChan:
			if !ok {
				statusChan = nil
				continue
			}
			jsonStatus, err := json.Marshal(status)
			if err != nil {
				continue
			}
			c.SSEvent("message", string(jsonStatus))
			c.Writer.Flush()
		case result := <-resultChan:
			if result.err != nil {
				payload, _ := json.Marshal(types.DataResponse{
					Status:  false,
					Message: result.err.Error(),
				})
				c.SSEvent("error", string(payload))
			} else {
				payload, _ := json.Marshal(types.DataResponse{
					Status: true,
					Data:   result.resp,
				})
				c.SSEvent("done", string(payload))
			}
			c.Writer.Flush()
			return
		}
	}
}
