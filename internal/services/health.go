package services

import (
	"context"

	"gorm.io/gorm"

	"solara/internal/database"
)

// HealthResult reports service liveness.
type HealthResult struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthService implements the health check
type HealthService struct {
	db      *gorm.DB
	service string
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, service string) *HealthService {
	return &HealthService{db: db, service: service}
}

// Check reports whether the service and its database are reachable
func (s *HealthService) Check(ctx context.Context) (*HealthResult, error) {
	status := "healthy"
	if err := database.Ping(s.db); err != nil {
		status = "degraded"
	}
	return &HealthResult{
		Status:  status,
		Service: s.service,
	}, nil
}
