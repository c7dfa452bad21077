package main

import (
	"github.com/askboard/askboard/config"
	"github.com/askboard/askboard/models"
	"github.com/askboard/askboard/routes"
	"github.com/askboard/askboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Category{}, &models.Question{}, &models.Answer{})

	sessions := utils.NewSessionStore()

	r := routes.SetupRouter(db, sessions)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
