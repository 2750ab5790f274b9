package main

import (
	"log"

	"github.com/moontigerdev/server-inventory-manager/config"
	"github.com/moontigerdev/server-inventory-manager/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := &server.App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatalf("init: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
