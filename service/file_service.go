package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/haodang/chatpdf-be/database"
	"github.com/haodang/chatpdf-be/types"
	"github.com/haodang/chatpdf-be/utils"
)

var pdfMagic = []byte("%PDF")

// FileService handles uploads end to end: validate, save, open the page
// index, and index the chunks into the vector store. Indexing is skipped
// when the document's fingerprint is already present, so re-uploading
// the same file only reopens it.
type FileService struct {
	uploadDir      string
	maxUploadBytes int64
	vectorStore    database.VectorStore
	pdfService     *PDFService
}

func NewFileService(
	uploadDir string,
	maxUploadBytes int64,
	vectorStore database.VectorStore,
	pdfService *PDFService,
) *FileService {
	return &FileService{
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
		vectorStore:    vectorStore,
		pdfService:     pdfService,
	}
}

// ProcessUpload validates and saves the uploaded PDF, opens it as the
// session's document, and indexes its chunks. Progress is streamed on
// status when the caller provides a channel; the channel is closed
// before returning.
func (s *FileService) ProcessUpload(
	ctx context.Context,
	session *Session,
	file *multipart.FileHeader,
	status chan<- types.ProcessingDocumentStatus,
) (resp *types.UploadResponse, err error) {
	defer func() {
		if status != nil {
			close(status)
		}
	}()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	if s.maxUploadBytes > 0 && file.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("file exceeds upload limit of %d bytes", s.maxUploadBytes)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("file %s is not a PDF", file.Filename)
	}

	fingerprint := utils.Fingerprint(data)

	destPath, err := utils.SaveUpload(data, s.uploadDir, file.Filename)
	if err != nil {
		return nil, err
	}

	index, err := NewPageIndex(data)
	if err != nil {
		return nil, err
	}

	s.send(status, types.ProcessingDocumentStatus{
		Status:     "extracting",
		Message:    "Extracting document text",
		TotalPages: index.NumPages(),
	})
	pages := s.pdfService.ExtractPages(index, destPath)

	indexed, err := s.vectorStore.HasFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to check document index: %w", err)
	}
	if indexed {
		s.send(status, types.ProcessingDocumentStatus{
			Status:     "completed",
			Message:    "Document already indexed",
			Progress:   1,
			TotalPages: index.NumPages(),
		})
	} else {
		if err := s.indexChunks(ctx, pages, file.Filename, fingerprint, status); err != nil {
			return nil, err
		}
	}

	session.Reset(index, destPath, file.Filename, fingerprint)

	return &types.UploadResponse{
		OriginalName: file.Filename,
		Fingerprint:  fingerprint,
		TotalPages:   index.NumPages(),
	}, nil
}

func (s *FileService) indexChunks(
	ctx context.Context,
	pages []types.PageDocument,
	fileName, fingerprint string,
	status chan<- types.ProcessingDocumentStatus,
) error {
	meta := types.DocumentMetadata{
		Title:       fileName,
		Source:      fileName,
		Fingerprint: fingerprint,
	}

	chunkChan := make(chan types.DocumentChunk)
	go s.pdfService.ChunkPages(pages, meta, chunkChan)

	var docs []database.Document
	now := time.Now().Unix()
	for chunk := range chunkChan {
		docs = append(docs, database.Document{
			Content: chunk.Content,
			Metadata: database.Metadata{
				Title:       chunk.Metadata.Title,
				Source:      chunk.Metadata.Source,
				Fingerprint: chunk.Metadata.Fingerprint,
				Page:        chunk.Page,
				TotalPages:  chunk.Metadata.TotalPages,
			},
			CreatedAt: now,
		})
		s.send(status, types.ProcessingDocumentStatus{
			Status:         "processing",
			Message:        "Indexing document",
			Progress:       float64(chunk.Page) / float64(len(pages)),
			TotalPages:     len(pages),
			ProcessedPages: chunk.Page,
		})
	}

	if len(docs) > 0 {
		if err := s.vectorStore.BatchInsertChunks(ctx, docs); err != nil {
			return fmt.Errorf("failed to index document: %w", err)
		}
	}

	s.send(status, types.ProcessingDocumentStatus{
		Status:         "completed",
		Message:        "Done processing PDF",
		Progress:       1,
		TotalPages:     len(pages),
		ProcessedPages: len(pages),
	})
	return nil
}

func (s *FileService) send(status chan<- types.ProcessingDocumentStatus, msg types.ProcessingDocumentStatus) {
	if status != nil {
		status <- msg
	}
}
