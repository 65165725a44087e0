package main

import (
	"fmt"
	"log"

	"skirmish/backend/internal/config"
	"skirmish/backend/internal/game"
	"skirmish/backend/internal/handler"
	"skirmish/backend/internal/hub"
	"skirmish/backend/internal/session"

	"github.com/gin-gonic/gin"
)

func init() {
	config.LoadConfig()
}

func main() {
	gin.SetMode(config.AppConfig.GinMode)

	registry := session.NewRegistry()
	fanout := hub.NewHub()
	coordinator := game.New(registry, fanout, config.AppConfig.StartDelay())

	wsHandler := handler.NewWSHandler(coordinator, config.AppConfig.ClientBuffer)
	healthHandler := handler.NewHealthHandler(registry, fanout)

	router := gin.Default()

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/ws", wsHandler.Serve)

	addr := ":" + config.AppConfig.Port
	fmt.Printf("Server is running on %s\n", addr)
	log.Fatal(router.Run(addr))
}
