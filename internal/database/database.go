package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	var dbLog zerolog.Logger
	if logger != nil {
		dbLog = logger.With().Str("component", "database").Logger()
	}
	dbLog.Info().Str("path", path).Msg("database initialized")

	return &DB{db: db, log: dbLog}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            avatar TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT 'user',
            status TEXT NOT NULL DEFAULT 'active',
            verified BOOLEAN NOT NULL DEFAULT 0,
            last_active DATETIME NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS properties (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            price REAL NOT NULL,
            price_per_room REAL NOT NULL DEFAULT 0,
            property_type TEXT NOT NULL,
            accommodation_type TEXT NOT NULL DEFAULT 'whole_apartment',
            bedrooms INTEGER NOT NULL DEFAULT 1,
            bathrooms INTEGER NOT NULL DEFAULT 1,
            max_occupancy INTEGER NOT NULL DEFAULT 2,
            images TEXT NOT NULL DEFAULT '[]',
            amenities TEXT NOT NULL DEFAULT '[]',
            house_rules TEXT NOT NULL DEFAULT '[]',
            is_available BOOLEAN NOT NULL DEFAULT 1,
            is_featured BOOLEAN NOT NULL DEFAULT 0,
            view_count INTEGER NOT NULL DEFAULT 0,
            booking_count INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id),
            property_id INTEGER NOT NULL REFERENCES properties(id),
            start_date DATE NOT NULL,
            end_date DATE NOT NULL,
            guests INTEGER NOT NULL DEFAULT 1,
            rooms INTEGER NOT NULL DEFAULT 0,
            total_amount REAL NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            payment_status TEXT NOT NULL DEFAULT 'pending',
            special_requests TEXT NOT NULL DEFAULT '',
            contact_phone TEXT NOT NULL DEFAULT '',
            contact_email TEXT NOT NULL DEFAULT '',
            cancellation_reason TEXT NOT NULL DEFAULT '',
            admin_notes TEXT NOT NULL DEFAULT '',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS reviews (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id),
            property_id INTEGER NOT NULL REFERENCES properties(id),
            booking_id INTEGER NOT NULL REFERENCES bookings(id),
            rating INTEGER NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            comment TEXT NOT NULL,
            cleanliness INTEGER NOT NULL DEFAULT 0,
            communication INTEGER NOT NULL DEFAULT 0,
            location_rating INTEGER NOT NULL DEFAULT 0,
            value_rating INTEGER NOT NULL DEFAULT 0,
            would_recommend BOOLEAN NOT NULL DEFAULT 1,
            status TEXT NOT NULL DEFAULT 'pending',
            admin_response TEXT NOT NULL DEFAULT '',
            helpful_count INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS comments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id),
            property_id INTEGER NOT NULL REFERENCES properties(id),
            comment TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            admin_response TEXT NOT NULL DEFAULT '',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS saved_properties (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id),
            property_id INTEGER NOT NULL REFERENCES properties(id),
            notes TEXT NOT NULL DEFAULT '',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,
		`CREATE INDEX IF NOT EXISTS idx_users_status ON users(status)`,

		`CREATE INDEX IF NOT EXISTS idx_properties_location ON properties(location)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_type ON properties(property_type)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_price ON properties(price)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_available ON properties(is_available)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_featured ON properties(is_featured)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_property_id ON bookings(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_dates ON bookings(start_date, end_date)`,

		`CREATE INDEX IF NOT EXISTS idx_reviews_property_id ON reviews(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_rating ON reviews(rating)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_user_booking ON reviews(user_id, booking_id)`,

		`CREATE INDEX IF NOT EXISTS idx_comments_property_id ON comments(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_status ON comments(status)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_user_property ON saved_properties(user_id, property_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}
