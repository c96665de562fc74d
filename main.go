package main

import (
	"github.com/cppla/codercomm/config"
	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/routes"
	"github.com/cppla/codercomm/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("database: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
