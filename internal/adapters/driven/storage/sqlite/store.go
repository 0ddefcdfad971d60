// Package sqlite provides the vendor store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/eventry-labs/vendorscout/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VendorStore = (*Store)(nil)

// Store is a SQLite-backed vendor store. Embeddings are stored as
// little-endian float32 blobs alongside the vendor metadata, which
// keeps corpus reads a single table scan.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.vendorscout/data/vendors.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vendorscout", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vendors.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Upsert inserts or replaces a vendor record, keyed by vendor ID.
func (s *Store) Upsert(ctx context.Context, vendor domain.Vendor) error {
	if vendor.ID == "" {
		return fmt.Errorf("vendor ID: %w", domain.ErrInvalidInput)
	}

	typesJSON, err := json.Marshal(vendor.Types)
	if err != nil {
		return fmt.Errorf("marshalling types: %w", err)
	}
	if vendor.CollectedAt.IsZero() {
		vendor.CollectedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vendors (id, category, name, formatted_address, rating, user_rating_count,
			primary_type, types, business_status, national_phone, website_uri, google_maps_uri,
			specialties, embedding, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			name = excluded.name,
			formatted_address = excluded.formatted_address,
			rating = excluded.rating,
			user_rating_count = excluded.user_rating_count,
			primary_type = excluded.primary_type,
			types = excluded.types,
			business_status = excluded.business_status,
			national_phone = excluded.national_phone,
			website_uri = excluded.website_uri,
			google_maps_uri = excluded.google_maps_uri,
			specialties = excluded.specialties,
			embedding = excluded.embedding,
			collected_at = excluded.collected_at
	`, vendor.ID, vendor.Category, vendor.Name, vendor.FormattedAddress, vendor.Rating,
		vendor.UserRatingCount, vendor.PrimaryType, string(typesJSON), vendor.BusinessStatus,
		vendor.NationalPhone, vendor.WebsiteURI, vendor.GoogleMapsURI, vendor.Specialties,
		float32SliceToBytes(vendor.Embedding), vendor.CollectedAt)

	if err != nil {
		return fmt.Errorf("saving vendor: %w", err)
	}
	return nil
}

// Get retrieves a vendor by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Vendor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category, name, formatted_address, rating, user_rating_count,
			primary_type, types, business_status, national_phone, website_uri,
			google_maps_uri, specialties, embedding, collected_at
		FROM vendors WHERE id = ?
	`, id)

	vendor, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning vendor: %w", err)
	}
	return vendor, nil
}

// List returns all stored vendors, optionally filtered by category.
func (s *Store) List(ctx context.Context, category string) ([]domain.Vendor, error) {
	query := `
		SELECT id, category, name, formatted_address, rating, user_rating_count,
			primary_type, types, business_status, national_phone, website_uri,
			google_maps_uri, specialties, embedding, collected_at
		FROM vendors`
	var args []any
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []domain.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		vendors = append(vendors, *vendor)
	}
	return vendors, rows.Err()
}

// FetchEmbeddings returns the (id, vector) pairs for all vendors that
// have an embedding, optionally filtered by category.
func (s *Store) FetchEmbeddings(ctx context.Context, category string) ([]domain.EmbeddingRecord, error) {
	query := `SELECT id, category, embedding FROM vendors WHERE embedding IS NOT NULL`
	var args []any
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching embeddings: %w", err)
	}
	defer rows.Close()

	var records []domain.EmbeddingRecord
	for rows.Next() {
		var rec domain.EmbeddingRecord
		var blob []byte
		if err := rows.Scan(&rec.ID, &rec.Category, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		rec.Vector = bytesToFloat32Slice(blob)
		if len(rec.Vector) == 0 {
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for scanVendor.
type scanner interface {
	Scan(dest ...any) error
}

func scanVendor(row scanner) (*domain.Vendor, error) {
	var vendor domain.Vendor
	var typesJSON string
	var embeddingBlob []byte
	var collectedAt sql.NullTime

	if err := row.Scan(&vendor.ID, &vendor.Category, &vendor.Name, &vendor.FormattedAddress,
		&vendor.Rating, &vendor.UserRatingCount, &vendor.PrimaryType, &typesJSON,
		&vendor.BusinessStatus, &vendor.NationalPhone, &vendor.WebsiteURI,
		&vendor.GoogleMapsURI, &vendor.Specialties, &embeddingBlob, &collectedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(typesJSON), &vendor.Types); err != nil {
		return nil, fmt.Errorf("unmarshaling types: %w", err)
	}
	vendor.Embedding = bytesToFloat32Slice(embeddingBlob)
	if collectedAt.Valid {
		vendor.CollectedAt = collectedAt.Time
	}
	return &vendor, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
