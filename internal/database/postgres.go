package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arch-i-tect/api/internal/models"
)

// Postgres wraps the PostgreSQL connection pool
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL connection pool
func NewPostgres(databaseURL string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

// Pool returns the underlying connection pool
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// Close closes the database connection pool
func (p *Postgres) Close() {
	p.pool.Close()
}

// SaveUpload records an accepted upload. Nil receivers are a no-op so the
// service keeps working when Postgres is not configured.
func (p *Postgres) SaveUpload(ctx context.Context, img *models.UploadedImage) error {
	if p == nil {
		return nil
	}
	query := `
		INSERT INTO uploads (id, filename, format, mime_type, width, height, size_bytes, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := p.pool.Exec(ctx, query,
		img.ID, img.Filename, img.Format, img.MIMEType, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// LogGeneration appends one audit row per generation attempt.
func (p *Postgres) LogGeneration(ctx context.Context, log *models.GenerationLog) error {
	if p == nil {
		return nil
	}
	query := `
		INSERT INTO generation_logs (id, image_id, provider, model, format, succeeded, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := p.pool.Exec(ctx, query,
		uuid.New(), log.ImageID, log.Provider, log.Model, log.Format, log.Succeeded, log.LatencyMS)
	return err
}
