package postgres

import "github.com/jmoiron/sqlx"

// LeadStore persists tenants, keywords, global leads and tenant leads.
type LeadStore struct {
	db *sqlx.DB
}

func NewLeadStore(db *sqlx.DB) *LeadStore {
	return &LeadStore{db: db}
}
