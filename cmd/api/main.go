package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/theguesswho/financial-news-platform/db"
	"github.com/theguesswho/financial-news-platform/internal/handler"
	"github.com/theguesswho/financial-news-platform/internal/repository"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("required environment variable DATABASE_URL is not set")
	}

	conn, err := db.Connect(connStr)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	reportRepo := repository.NewReportRepository(conn)
	reportHandler := handler.NewReportHandler(reportRepo)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/reports", reportHandler.GetReports)
	r.GET("/reports/:id", reportHandler.GetReport)
	r.GET("/health", reportHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
