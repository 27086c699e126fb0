package main

import (
	"context"
	"log"
	"os"

	"github.com/garciabuilder/profilesync/internal/app"
	"github.com/garciabuilder/profilesync/internal/buildinfo"
	"github.com/garciabuilder/profilesync/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer a.Close()

	if err := a.Run(ctx, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
