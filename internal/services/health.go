package services

import (
	"fmt"
	"log"

	"github.com/airwuu/appstore/internal/config"
	"github.com/airwuu/appstore/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	API          string            `json:"api"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck probes the session database and the remote App Store API.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check session database connectivity. A nil db means the store is
	// running in-memory-only after a startup storage failure. The storefront
	// still serves in that mode, so it is degraded rather than unhealthy and
	// must keep passing liveness probes.
	if db == nil {
		result.Status = "degraded"
		result.Database = "in-memory"
		result.Details["database_note"] = "session store is in-memory only"
		log.Println("Health check - session store degraded to in-memory")
		return checkAPI(cfg, result)
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Session database error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Session database ping failed: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	return checkAPI(cfg, result)
}

// checkAPI fills in the remote API reachability portion of the result.
func checkAPI(cfg *config.Config, result HealthCheckResult) HealthCheckResult {
	if err := utils.PingAPI(cfg.APIBaseURL); err != nil {
		result.Status = "unhealthy"
		result.API = "unreachable"
		result.Details["api_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("API ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; API ping failed: %v", err)
		}
		log.Printf("Health check failed - api ping: %v", err)
	} else {
		result.API = "ok"
		result.Details["api_url"] = cfg.APIBaseURL
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
