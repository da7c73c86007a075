package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/airwuu/appstore/internal/config"
	"github.com/airwuu/appstore/internal/database"
	"github.com/airwuu/appstore/internal/services"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the session database; a failure is reported, not fatal,
	// so the probe can still tell us about the remote API.
	var db *gorm.DB
	db, err = database.Connect(cfg)
	if err != nil {
		log.Printf("Session database unavailable: %v", err)
		db = nil
	} else {
		defer database.Close(db)
	}

	// Perform health check
	result := services.HealthCheck(cfg, db)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code. A degraded (in-memory session) storefront
	// still serves traffic and must not fail the probe.
	if result.Status == "unhealthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
