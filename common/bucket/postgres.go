package bucket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/juicelabs/juice-content/common/db"
	"github.com/juicelabs/juice-content/common/logger"
)

// PostgresBucket stores blobs in a single blob_object table. Object URLs use
// the pg:// scheme so that Delete and Fetch can address rows by key.
type PostgresBucket struct {
	db  *db.DB
	log *logger.Logger
}

// NewPostgresBucket creates a Postgres-backed bucket.
func NewPostgresBucket(db *db.DB, log *logger.Logger) *PostgresBucket {
	return &PostgresBucket{db: db, log: log}
}

// InitSchema creates the blob_object table if it does not exist.
func (b *PostgresBucket) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS blob_object (
			key          TEXT PRIMARY KEY,
			content      BYTEA NOT NULL,
			content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
			size_bytes   BIGINT NOT NULL,
			uploaded_at  TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := b.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create blob_object table: %w", err)
	}
	return nil
}

// List returns objects under prefix in key order.
func (b *PostgresBucket) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	query := `
		SELECT key, size_bytes, uploaded_at
		FROM blob_object
		WHERE key LIKE $1 || '%'
		ORDER BY key
	`

	rows, err := b.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("list blobs under %q: %w", prefix, err)
	}
	defer rows.Close()

	var infos []ObjectInfo
	for rows.Next() {
		var info ObjectInfo
		if err := rows.Scan(&info.Key, &info.Size, &info.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan blob row: %w", err)
		}
		info.URL = "pg://" + info.Key
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blob rows: %w", err)
	}
	return infos, nil
}

// Put inserts or, with AllowOverwrite, replaces the row for key.
func (b *PostgresBucket) Put(ctx context.Context, key string, body []byte, opts PutOptions) (*ObjectInfo, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO blob_object (key, content, content_type, size_bytes, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO NOTHING
	`
	if opts.AllowOverwrite {
		query = `
			INSERT INTO blob_object (key, content, content_type, size_bytes, uploaded_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (key) DO UPDATE
			SET content = EXCLUDED.content,
			    content_type = EXCLUDED.content_type,
			    size_bytes = EXCLUDED.size_bytes,
			    uploaded_at = EXCLUDED.uploaded_at
		`
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	tag, err := b.db.Exec(ctx, query, key, body, contentType, int64(len(body)), now)
	if err != nil {
		return nil, fmt.Errorf("store blob %q: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrKeyExists
	}

	b.log.Debug("blob stored", "key", key, "size", len(body))
	return &ObjectInfo{
		Key:        key,
		URL:        "pg://" + key,
		Size:       int64(len(body)),
		UploadedAt: now,
	}, nil
}

// Delete removes the row behind url.
func (b *PostgresBucket) Delete(ctx context.Context, url string) error {
	key := keyFromURL(url, "pg://")

	tag, err := b.db.Exec(ctx, `DELETE FROM blob_object WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Fetch returns the content column for the row behind url.
func (b *PostgresBucket) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := keyFromURL(url, "pg://")

	var content []byte
	err := b.db.QueryRow(ctx, `SELECT content FROM blob_object WHERE key = $1`, key).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch blob %q: %w", key, err)
	}
	return content, nil
}
