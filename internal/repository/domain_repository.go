package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

const domainColumns = `id, name, description, expectations, repair_actions, created_at, updated_at`

// DomainRepository reads the behavioral domain catalog.
type DomainRepository struct {
	db *sqlx.DB
}

// NewDomainRepository constructs the repository.
func NewDomainRepository(db *sqlx.DB) *DomainRepository {
	return &DomainRepository{db: db}
}

// List returns every domain ordered by name.
func (r *DomainRepository) List(ctx context.Context) ([]models.BehavioralDomain, error) {
	query := fmt.Sprintf("SELECT %s FROM behavioral_domains ORDER BY name ASC", domainColumns)
	var domains []models.BehavioralDomain
	if err := r.db.SelectContext(ctx, &domains, query); err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return domains, nil
}

// FindByID fetches a domain. A missing row surfaces as sql.ErrNoRows.
func (r *DomainRepository) FindByID(ctx context.Context, id string) (*models.BehavioralDomain, error) {
	query := fmt.Sprintf("SELECT %s FROM behavioral_domains WHERE id = $1", domainColumns)
	var domain models.BehavioralDomain
	if err := r.db.GetContext(ctx, &domain, query, id); err != nil {
		return nil, err
	}
	return &domain, nil
}
