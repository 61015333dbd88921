package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/stonesign/plaque-cms/internal/model"
)

const galleryCols = `id, media_asset_id, title, description, category, display_order, is_active, created_at, updated_at`

// Joined select; m.* columns are NULL when the referenced asset is gone.
const galleryJoin = `
SELECT g.id, g.media_asset_id, g.title, g.description, g.category, g.display_order, g.is_active,
       g.created_at, g.updated_at, m.url, m.alt_text
FROM gallery_items g
LEFT JOIN media_assets m ON m.id = g.media_asset_id`

// GalleryRepo implements GalleryItemRepository using PostgreSQL.
type GalleryRepo struct{ db *DB }

// NewGalleryRepo constructs a gallery repository.
func NewGalleryRepo(db *DB) *GalleryRepo { return &GalleryRepo{db: db} }

func (r *GalleryRepo) list(ctx context.Context, q string) ([]model.GalleryEntry, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.GalleryEntry{}
	for rows.Next() {
		var e model.GalleryEntry
		if err := rows.Scan(&e.ID, &e.MediaAssetID, &e.Title, &e.Description, &e.Category, &e.DisplayOrder,
			&e.IsActive, &e.CreatedAt, &e.UpdatedAt, &e.ImageURL, &e.AltText); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// List returns every item with its image, in display order.
func (r *GalleryRepo) List(ctx context.Context) ([]model.GalleryEntry, error) {
	return r.list(ctx, galleryJoin+`
ORDER BY g.display_order, g.id`)
}

// ListActive returns active items with their images, in display order.
func (r *GalleryRepo) ListActive(ctx context.Context) ([]model.GalleryEntry, error) {
	return r.list(ctx, galleryJoin+`
WHERE g.is_active
ORDER BY g.display_order, g.id`)
}

// Get returns an item by id or nil.
func (r *GalleryRepo) Get(ctx context.Context, id int64) (*model.GalleryItem, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	const q = `SELECT ` + galleryCols + ` FROM gallery_items WHERE id=$1`
	var g model.GalleryItem
	err = pool.QueryRow(ctx, q, id).Scan(&g.ID, &g.MediaAssetID, &g.Title, &g.Description, &g.Category,
		&g.DisplayOrder, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// Create inserts an item without checking the media reference.
func (r *GalleryRepo) Create(ctx context.Context, in model.NewGalleryItem) (model.InsertResult, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return model.InsertResult{}, err
	}
	const q = `
INSERT INTO gallery_items (media_asset_id, title, description, category, display_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	var id int64
	err = pool.QueryRow(ctx, q, in.MediaAssetID, in.Title, in.Description, in.Category, in.DisplayOrder, in.IsActive).Scan(&id)
	if err != nil {
		return model.InsertResult{}, err
	}
	return model.InsertResult{InsertID: id}, nil
}

// Update applies a partial update and re-reads the row.
func (r *GalleryRepo) Update(ctx context.Context, id int64, p model.GalleryItemPatch) (*model.GalleryItem, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	var set patch
	setIf(&set, "media_asset_id", p.MediaAssetID)
	setIf(&set, "title", p.Title)
	setIf(&set, "description", p.Description)
	setIf(&set, "category", p.Category)
	setIf(&set, "display_order", p.DisplayOrder)
	setIf(&set, "is_active", p.IsActive)

	q, args := set.statement("gallery_items", id)
	if _, err := pool.Exec(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes an item; missing ids are not an error.
func (r *GalleryRepo) Delete(ctx context.Context, id int64) (model.Ack, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return model.Ack{}, err
	}
	if _, err := pool.Exec(ctx, `DELETE FROM gallery_items WHERE id=$1`, id); err != nil {
		return model.Ack{}, err
	}
	return model.Ack{Success: true}, nil
}
