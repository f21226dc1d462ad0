package main

import (
	"context"
	"log"

	"github.com/dverbovy/tabstock/internal/device/cli"
	"github.com/dverbovy/tabstock/internal/device/config"
	"github.com/dverbovy/tabstock/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg, logging.NewDefault())

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
