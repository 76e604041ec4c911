package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmer-portal/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("record not found")

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

// NewStoreWithDB wraps an existing connection.
func NewStoreWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetFarmerByID retrieves a farmer record by ID
func (s *Store) GetFarmerByID(ctx context.Context, id string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := s.db.GetContext(ctx, &farmer,
		`SELECT id, user_id, name, bio, about, region, town, image, payment_account_id, created_at, updated_at
		FROM farmers WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("farmer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

// UpdateFarmerDetails applies a partial update to a farmer record
func (s *Store) UpdateFarmerDetails(ctx context.Context, farmerID string, details models.FarmerDetails) error {
	if len(details) == 0 {
		return fmt.Errorf("no fields to update")
	}

	fields := details.Fields()
	sets := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	for _, f := range fields {
		if !f.Valid() {
			return fmt.Errorf("unknown farmer field: %s", f)
		}
		args = append(args, columnValue(f, details[f]))
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Column(), len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, farmerID)

	query := fmt.Sprintf("UPDATE farmers SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update farmer: %w", err)
	}
	return expectRow(res, "farmer", farmerID)
}

// columnValue stores an empty payment account as NULL.
func columnValue(f models.ProfileField, v string) interface{} {
	if f == models.FieldPaymentAccountID && v == "" {
		return nil
	}
	return v
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
