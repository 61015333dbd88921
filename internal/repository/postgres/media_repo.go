package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/stonesign/plaque-cms/internal/model"
)

const mediaCols = `id, filename, file_key, url, mime_type, file_size, alt_text, usage_context, uploaded_by, created_at, updated_at`

// MediaRepo implements MediaAssetRepository using PostgreSQL.
type MediaRepo struct{ db *DB }

// NewMediaRepo constructs a media asset repository.
func NewMediaRepo(db *DB) *MediaRepo { return &MediaRepo{db: db} }

func scanMedia(row scanner) (model.MediaAsset, error) {
	var m model.MediaAsset
	err := row.Scan(&m.ID, &m.Filename, &m.FileKey, &m.URL, &m.MimeType, &m.FileSize,
		&m.AltText, &m.UsageContext, &m.UploadedBy, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *MediaRepo) list(ctx context.Context, q string, args ...any) ([]model.MediaAsset, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MediaAsset{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// List returns all assets, most recent first.
func (r *MediaRepo) List(ctx context.Context) ([]model.MediaAsset, error) {
	const q = `SELECT ` + mediaCols + ` FROM media_assets ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q)
}

// ListByContext returns the assets with the given usage context.
func (r *MediaRepo) ListByContext(ctx context.Context, usageContext string) ([]model.MediaAsset, error) {
	const q = `SELECT ` + mediaCols + ` FROM media_assets WHERE usage_context=$1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, usageContext)
}

// Get returns an asset by id or nil.
func (r *MediaRepo) Get(ctx context.Context, id int64) (*model.MediaAsset, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	const q = `SELECT ` + mediaCols + ` FROM media_assets WHERE id=$1`
	m, err := scanMedia(pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts an asset row.
func (r *MediaRepo) Create(ctx context.Context, in model.NewMediaAsset) (model.InsertResult, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return model.InsertResult{}, err
	}
	const q = `
INSERT INTO media_assets (filename, file_key, url, mime_type, file_size, alt_text, usage_context, uploaded_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	var id int64
	err = pool.QueryRow(ctx, q, in.Filename, in.FileKey, in.URL, in.MimeType, in.FileSize,
		in.AltText, in.UsageContext, in.UploadedBy).Scan(&id)
	if err != nil {
		return model.InsertResult{}, err
	}
	return model.InsertResult{InsertID: id}, nil
}

// Update changes metadata only and re-reads the row.
func (r *MediaRepo) Update(ctx context.Context, id int64, p model.MediaAssetPatch) (*model.MediaAsset, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	var set patch
	setIf(&set, "alt_text", p.AltText)
	setIf(&set, "usage_context", p.UsageContext)

	q, args := set.statement("media_assets", id)
	if _, err := pool.Exec(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes the metadata row.
func (r *MediaRepo) Delete(ctx context.Context, id int64) (model.Ack, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return model.Ack{}, err
	}
	if _, err := pool.Exec(ctx, `DELETE FROM media_assets WHERE id=$1`, id); err != nil {
		return model.Ack{}, err
	}
	return model.Ack{Success: true}, nil
}
