package main

import (
	"context"
	"log"
	"os"

	"github.com/dpetrovs/proconnect/internal/buildinfo"
	"github.com/dpetrovs/proconnect/internal/client/cli"
	"github.com/dpetrovs/proconnect/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
