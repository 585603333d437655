package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/haodang/chatpdf-be/config"
	"github.com/haodang/chatpdf-be/database"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
	"github.com/haodang/chatpdf-be/utils"
	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index a PDF into the vector store without starting the server",
	Long: `Reads a PDF, chunks its text page by page, and indexes the chunks
into Weaviate under the document's fingerprint. A document that is
already indexed is skipped unless --force is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		filePath, _ := cmd.Flags().GetString("file")
		reinit, _ := cmd.Flags().GetBool("reinit")
		force, _ := cmd.Flags().GetBool("force")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		weaviateStore, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		if reinit {
			if err := weaviateStore.ReInit(); err != nil {
				log.Fatalf("Failed to reinitialize Weaviate database: %v", err)
			}
		}

		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("Failed to read file: %v", err)
		}
		fingerprint := utils.Fingerprint(data)

		ctx := context.Background()
		indexed, err := weaviateStore.HasFingerprint(ctx, fingerprint)
		if err != nil {
			log.Fatalf("Failed to check document index: %v", err)
		}
		if indexed {
			if !force {
				fmt.Println("Document already indexed:", fingerprint)
				return
			}
			if err := weaviateStore.DeleteByFingerprint(ctx, fingerprint); err != nil {
				log.Fatalf("Failed to remove existing chunks: %v", err)
			}
		}

		index, err := service.NewPageIndex(data)
		if err != nil {
			log.Fatalf("Failed to open PDF: %v", err)
		}

		pdfService := service.NewPDFService(types.DocumentServiceConfig{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
		})
		pages := pdfService.ExtractPages(index, filePath)

		fileName := filepath.Base(filePath)
		meta := types.DocumentMetadata{
			Title:       fileName,
			Source:      fileName,
			Fingerprint: fingerprint,
		}
		chunkChan := make(chan types.DocumentChunk)
		go pdfService.ChunkPages(pages, meta, chunkChan)

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
		}
		if err := weaviateStore.BatchInsertChunks(ctx, docs); err != nil {
			log.Fatalf("Failed to index document: %v", err)
		}
		fmt.Printf("Indexed %d chunks from %d pages (fingerprint %s)\n", len(docs), index.NumPages(), fingerprint)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("file", "f", "", "Path to the PDF to index")
	ingestCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
	ingestCmd.Flags().BoolP("reinit", "r", false, "Drop and recreate the chunk class first")
	ingestCmd.Flags().Bool("force", false, "Re-index even if the fingerprint is already present")
}
