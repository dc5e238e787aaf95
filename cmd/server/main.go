package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/internportal/internal/buildinfo"
	"github.com/dmitrijs2005/internportal/internal/logging"
	"github.com/dmitrijs2005/internportal/internal/server"
	"github.com/dmitrijs2005/internportal/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
