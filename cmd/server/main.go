package main

import (
	"log"

	_ "todoapi/docs"
	"todoapi/internal/config"
	"todoapi/internal/server"
)

// @title           Todo API
// @version         1.0
// @description     Personal task management API with JWT authentication and an AI task assistant.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
