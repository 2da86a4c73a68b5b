package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"autoradar/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// listingColumns is the shared select list for listing queries. The
// embedding column is intentionally excluded; it is only touched by the
// embedding update and similarity queries.
const listingColumns = `
	l.id, l.brand, l.model, l.year, l.price, l.mileage, l.title,
	l.description, l.motor, l.extras, l.characteristics, l.tags,
	l.transmission, l.condition, l.published_at, l.location, l.image_urls,
	l.created_at, l.updated_at,
	s.id AS seller_id, s.name AS seller_name, s.location_type AS seller_location`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// FetchListings returns every scraped listing in the catalog scope, joined
// with its seller, in deterministic insertion order. The pipeline does all
// grouping and filtering in-process.
func (r *PostgresRepository) FetchListings(ctx context.Context) ([]model.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		LEFT JOIN sellers s ON s.id = l.seller_id
		ORDER BY l.created_at, l.id
	`, listingColumns)

	var listings []model.Listing
	if err := r.db.SelectContext(ctx, &listings, query); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// FetchPriceStats loads the market price aggregates keyed by the exact
// brand_model_year composite the scorer looks up.
func (r *PostgresRepository) FetchPriceStats(ctx context.Context) (map[string]model.PriceStatistic, error) {
	query := `
		SELECT brand, model, year, median_price, min_price, max_price, avg_price, sample_count
		FROM price_statistics
	`

	var stats []model.PriceStatistic
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to fetch price statistics: %w", err)
	}

	byKey := make(map[string]model.PriceStatistic, len(stats))
	for _, stat := range stats {
		byKey[stat.Key()] = stat
	}
	return byKey, nil
}

// GetListingByID retrieves a single listing by its ID
func (r *PostgresRepository) GetListingByID(ctx context.Context, listingID string) (*model.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		LEFT JOIN sellers s ON s.id = l.seller_id
		WHERE l.id = $1
	`, listingColumns)

	var listing model.Listing
	err := r.db.GetContext(ctx, &listing, query, listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// SimilarListings returns the listings closest to the given one by
// embedding distance. Embeddings are populated by the scraper through
// BatchUpdateEmbeddings; listings without one are skipped.
func (r *PostgresRepository) SimilarListings(ctx context.Context, listingID string, limit int) ([]model.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			l.embedding <=> ref.embedding AS distance
		FROM listings l
		LEFT JOIN sellers s ON s.id = l.seller_id,
			(SELECT embedding FROM listings WHERE id = $1 AND embedding IS NOT NULL) ref
		WHERE l.id <> $1 AND l.embedding IS NOT NULL
		ORDER BY distance
		LIMIT $2
	`, listingColumns)

	var listings []model.Listing
	if err := r.db.SelectContext(ctx, &listings, query, listingID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch similar listings: %w", err)
	}
	return listings, nil
}

// UpdateEmbedding updates the embedding vector for a listing
func (r *PostgresRepository) UpdateEmbedding(ctx context.Context, listingID string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	query := `UPDATE listings SET embedding = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, vec, listingID)
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	return nil
}

// BatchUpdateEmbeddings updates embeddings for multiple listings
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errors []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE listings SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Embedding)
		_, err := stmt.ExecContext(ctx, vec, item.ListingID)
		if err != nil {
			errors = append(errors, fmt.Sprintf("listing_id %s: %v", item.ListingID, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// LogOpportunityRun records a pipeline run in the audit table
func (r *PostgresRepository) LogOpportunityRun(ctx context.Context, runID string, limit, candidates, returned int, tookMs int64) error {
	query := `
		INSERT INTO opportunity_runs (run_id, requested_limit, eligible_groups, returned_count, took_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, runID, limit, candidates, returned, tookMs)
	if err != nil {
		return fmt.Errorf("failed to log opportunity run: %w", err)
	}
	return nil
}

// LogFeedback records a dealer action on a surfaced opportunity
func (r *PostgresRepository) LogFeedback(ctx context.Context, runID, listingID, action string) error {
	query := `
		INSERT INTO opportunity_feedback (run_id, listing_id, action)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, runID, listingID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
