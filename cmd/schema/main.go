package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/theguesswho/financial-news-platform/db"
)

func main() {

	reset := flag.Bool("reset", false, "drop every table before recreating the schema")
	flag.Parse()

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

	if *reset {
		slog.Warn("resetting database: all stored facts and reports will be dropped")
		if err := db.Reset(conn); err != nil {
			log.Fatalf("error resetting schema: %v", err)
		}
		slog.Info("schema reset complete")
		return
	}

	if err := db.EnsureSchema(conn); err != nil {
		log.Fatalf("error applying schema: %v", err)
	}
	slog.Info("schema applied")
}
