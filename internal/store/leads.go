// Package store provides the persistence layer for captured leads.
// The inquiries table is append-only: the store exposes no update or
// delete operations.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"solara/internal/domain"
)

// Leads is the lead store. All queries go through gorm's parameterized
// statement builder; input sanitization upstream is a second line of
// defense, not the primary one.
type Leads struct {
	db *gorm.DB
}

// NewLeads creates a lead store on top of an open database handle.
func NewLeads(db *gorm.DB) *Leads {
	return &Leads{db: db}
}

// Insert persists a new lead. The id and date are assigned by the store
// and written back into lead.
func (s *Leads) Insert(ctx context.Context, lead *domain.Lead) error {
	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

// ListNewestFirst returns all leads ordered by submission date, most
// recent first.
func (s *Leads) ListNewestFirst(ctx context.Context) ([]domain.Lead, error) {
	var leads []domain.Lead
	if err := s.db.WithContext(ctx).Order("date DESC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// CountByType returns the number of leads of the given type, or the total
// count when leadType is empty.
func (s *Leads) CountByType(ctx context.Context, leadType string) (int64, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.Lead{})
	if leadType != "" {
		q = q.Where("type = ?", leadType)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

// Stats returns aggregate lead counts broken down by type.
func (s *Leads) Stats(ctx context.Context) (*domain.LeadStats, error) {
	stats := &domain.LeadStats{}
	counts := []struct {
		leadType string
		dest     *int64
	}{
		{"", &stats.Total},
		{domain.TypeResidential, &stats.Residential},
		{domain.TypeCommercial, &stats.Commercial},
		{domain.TypeIndustrial, &stats.Industrial},
	}
	for _, c := range counts {
		n, err := s.CountByType(ctx, c.leadType)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}
	return stats, nil
}
