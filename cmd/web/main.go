package main

import (
	"log"

	"digivera_backend/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on environment")
	}

	app.Run()
}
