package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"GeoTiler-App/internal/domain/repository"
	"GeoTiler-App/internal/domain/service"
	"GeoTiler-App/internal/handler"
	"GeoTiler-App/internal/infrastructure/database"
	"GeoTiler-App/internal/infrastructure/triangulation"
	repoImpl "GeoTiler-App/internal/repository"
	"GeoTiler-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// メッシュの保存先: DATABASE_URLがあればPostgreSQL、なければファイル出力
	var meshRepo repository.MeshRepository
	if os.Getenv("DATABASE_URL") != "" {
		fmt.Println("Initializing PostgreSQL client...")
		dbClient, err := database.NewPostgreSQLClient()
		if err != nil {
			log.Fatalf("PostgreSQLクライアント初期化失敗: %v", err)
		}
		if err := dbClient.HealthCheck(); err != nil {
			log.Fatalf("PostgreSQLヘルスチェック失敗: %v", err)
		}
		fmt.Println("✅ PostgreSQL connection successful!")
		meshRepo = repoImpl.NewPostgresMeshRepository(dbClient)
	} else {
		outputDir := os.Getenv("MESH_OUTPUT_DIR")
		if outputDir == "" {
			outputDir = "./meshes"
		}
		fmt.Printf("Mesh output directory: %s\n", outputDir)
		meshRepo = repoImpl.NewFileMeshRepository(outputDir)
	}

	// サービス・ユースケース・ハンドラーの初期化
	projectionService := service.NewProjectionService()
	rotationService := service.NewRotationService()
	fibonacciService := service.NewFibonacciService()
	gridService := service.NewTileGridService()
	triangulator := triangulation.NewDelaunayTriangulator()

	tileMeshUseCase := usecase.NewTileMeshUseCase(
		gridService,
		projectionService,
		rotationService,
		fibonacciService,
		triangulator,
		meshRepo,
	)
	tileMeshHandler := handler.NewTileMeshHandler(tileMeshUseCase, gridService)

	// Ginエンジンのセットアップ
	router := gin.Default()
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "GeoTiler-App"})
	})
	router.POST("/meshes/generate", tileMeshHandler.PostGenerate)
	router.GET("/grid", tileMeshHandler.GetGrid)

	fmt.Printf("GeoTiler-App server starting on :%s...\n", port)
	log.Fatal(router.Run(":" + port))
}
