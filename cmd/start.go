package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/config"
	"github.com/haodang/chatpdf-be/database"
	"github.com/haodang/chatpdf-be/handler"
	"github.com/haodang/chatpdf-be/middleware"
	"github.com/haodang/chatpdf-be/repository"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
	"github.com/spf13/cobra"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the QA server",
	Long:  `Starts the server that handles uploads, questions, and viewer state`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		weaviateStore, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}

		mongoClient, err := database.NewMongoClient(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database("chatpdf")

		answerer := buildAnswerer(cfg)
		// A dead engine at startup is reported and the server does not
		// come up; every later failure is scoped to one request.
		if err := answerer.Healthy(context.Background()); err != nil {
			log.Fatalf("Answering engine is not reachable: %v", err)
		}

		pdfService := service.NewPDFService(types.DocumentServiceConfig{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
		})
		retriever := service.NewRetriever(weaviateStore, cfg.TopK, cfg.FetchK, cfg.MMRLambda)
		qaService := service.NewQAService(retriever, answerer)
		sessionService := service.NewSessionService()
		fileService := service.NewFileService(cfg.UploadDir, cfg.MaxUploadBytes, weaviateStore, pdfService)
		wsService := service.NewWebSocketService(qaService)

		userRepo := repository.NewUserRepo(mongoDb.Collection("users"))
		userService := service.NewUserService(userRepo)

		corsHandler := handler.NewCorsHandler()
		loginHandler := handler.NewLoginHandler(userService)
		uploadHandler := handler.NewUploadHandler(fileService, sessionService)
		askHandler := handler.NewAskHandler(qaService, sessionService)
		viewerHandler := handler.NewViewerHandler(sessionService)
		documentHandler := handler.NewDocumentHandler(sessionService)
		searchHandler := handler.NewSearchHandler(weaviateStore, sessionService)
		wsHandler := handler.NewWebSocketHandler(wsService, sessionService)
		userMngHandler := handler.NewUserManageHandler(userService)

		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		apiV1.POST("/login", loginHandler.HandleLogin)

		userRoutes := apiV1.Group("/")
		userRoutes.Use(middleware.AuthMiddleware())
		{
			userRoutes.POST("/documents/upload", uploadHandler.UploadDocumentHandler)
			userRoutes.POST("/ask", askHandler.HandleAsk)
			userRoutes.GET("/viewer/state", viewerHandler.HandleState)
			userRoutes.POST("/viewer/next", viewerHandler.HandleNextPage)
			userRoutes.POST("/viewer/prev", viewerHandler.HandlePrevPage)
			userRoutes.POST("/viewer/goto", viewerHandler.HandleGotoPage)
			userRoutes.POST("/viewer/zoom", viewerHandler.HandleZoom)
			userRoutes.GET("/pdf", documentHandler.ServeDocument)
			userRoutes.POST("/documents/search", searchHandler.HandleSearch)
			userRoutes.GET("/ws", wsHandler.HandleWebSocket)
		}

		adminRoutes := router.Group("/admin/api/v1")
		adminRoutes.Use(middleware.AdminAuthMiddleware())
		{
			adminRoutes.POST("/users/create", userMngHandler.HandleCreateUser)
			adminRoutes.GET("/users/list", userMngHandler.HandleListUsers)
			adminRoutes.GET("/users/get", userMngHandler.HandleGetUser)
			adminRoutes.DELETE("/users/delete", userMngHandler.HandleDeleteUser)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

// buildAnswerer selects the answering engine from config.
func buildAnswerer(cfg *config.Config) service.Answerer {
	switch cfg.Provider {
	case "gemini":
		answerer, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model)
		if err != nil {
			log.Fatalf("Failed to create Gemini service: %v", err)
		}
		return answerer
	default:
		return service.NewOpenAIService(cfg.AIEndpoint, cfg.APIKey(), cfg.Model)
	}
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
