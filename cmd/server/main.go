package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/wtg/vaultsync/internal/buildinfo"
	"github.com/wtg/vaultsync/internal/server"
	"github.com/wtg/vaultsync/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
