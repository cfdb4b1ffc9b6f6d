package main

import (
	"fmt"
	"log"

	"task-manager/internal/config"
	"task-manager/internal/database"
	"task-manager/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	r := server.NewRouter(cfg, database.DB)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
