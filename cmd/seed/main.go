package main

import (
	"context"
	"flag"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/config"
	"github.com/Dias221467/Language_Exchange/internal/database"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/Dias221467/Language_Exchange/internal/seed"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
)

func main() {
	count := flag.Int("users", 25, "number of demo users to create")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed for generated data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Fatalf("Invalid configuration: %v", err)
	}
	logger.InitLogger(cfg.LogLevel)

	if cfg.IsProduction() {
		logger.Log.Fatal("Refusing to seed a production database")
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Database connection error: %v", err)
	}
	defer db.Client().Disconnect(context.Background())

	ctx := context.Background()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Log.Fatalf("Failed to create indexes: %v", err)
	}

	factory, err := seed.NewFactory(*seedValue)
	if err != nil {
		logger.Log.Fatal(err)
	}
	users, err := factory.Users(ctx, repository.NewUserRepository(db), *count)
	if err != nil {
		logger.Log.Fatal(err)
	}
	logger.Log.Infof("Created %d users, password %q", len(users), seed.DemoPassword)
}
