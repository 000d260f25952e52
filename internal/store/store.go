package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"commerce-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetCategoryByID retrieves a category with its subcategory count. Returns
// (nil, nil) when the category does not exist.
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, `
		SELECT c.id, c.parent_id, c.name, c.created_at,
		       (SELECT COUNT(*) FROM categories WHERE parent_id = c.id) AS child_count
		FROM categories c
		WHERE c.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetOptionTypesByIDs retrieves option types by IDs. Missing IDs simply do
// not appear in the result.
func (s *Store) GetOptionTypesByIDs(ctx context.Context, ids []int64) ([]models.OptionType, error) {
	if len(ids) == 0 {
		return []models.OptionType{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM option_types WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var types []models.OptionType
	err = s.db.SelectContext(ctx, &types, query, args...)
	return types, err
}

// GetOptionValuesByIDs retrieves option values by IDs.
func (s *Store) GetOptionValuesByIDs(ctx context.Context, ids []int64) ([]models.OptionValue, error) {
	if len(ids) == 0 {
		return []models.OptionValue{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM option_values WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var values []models.OptionValue
	err = s.db.SelectContext(ctx, &values, query, args...)
	return values, err
}

// AnySKUExists reports whether any of the given SKUs is already persisted.
func (s *Store) AnySKUExists(ctx context.Context, skus []string) (bool, error) {
	if len(skus) == 0 {
		return false, nil
	}

	query, args, err := sqlx.In("SELECT EXISTS(SELECT 1 FROM product_variants WHERE sku IN (?))", skus)
	if err != nil {
		return false, err
	}
	query = s.db.Rebind(query)

	var exists bool
	err = s.db.GetContext(ctx, &exists, query, args...)
	return exists, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
