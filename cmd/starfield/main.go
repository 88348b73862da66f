package main

import (
	"log"

	"github.com/cosmicverse/starfield/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ starfield failed to start: %v", err)
	}
}
