package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/gauravpatil09/rating-app/internal/config"
	"github.com/gauravpatil09/rating-app/internal/database"
	"github.com/gauravpatil09/rating-app/internal/delivery"
	"github.com/gauravpatil09/rating-app/internal/rating"
	"github.com/gauravpatil09/rating-app/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		logrus.Fatalf("database: %v", err)
	}
	defer database.Close(db)

	cache := rating.NewCache(database.ConnectRedis(cfg))

	app := server.New(cfg, db, cache, delivery.NewConsole())

	logrus.Infof("server listening on :%s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
