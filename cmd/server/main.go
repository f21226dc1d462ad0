package main

import (
	"context"
	"log"

	"github.com/dverbovy/tabstock/internal/server"
	"github.com/dverbovy/tabstock/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
