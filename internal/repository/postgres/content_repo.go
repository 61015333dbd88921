package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/stonesign/plaque-cms/internal/model"
)

const contentCols = `id, page_id, section_id, content, content_type, display_order, is_active, created_at, updated_at`

// ContentRepo implements PageContentRepository using PostgreSQL.
type ContentRepo struct{ db *DB }

// NewContentRepo constructs a page content repository.
func NewContentRepo(db *DB) *ContentRepo { return &ContentRepo{db: db} }

func scanContent(row scanner) (model.PageContent, error) {
	var (
		c  model.PageContent
		ct string
	)
	err := row.Scan(&c.ID, &c.PageID, &c.SectionID, &c.Content, &ct, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	c.ContentType = model.ContentType(ct)
	return c, err
}

func (r *ContentRepo) list(ctx context.Context, q string, args ...any) ([]model.PageContent, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PageContent{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// List returns all blocks ordered by page then display order.
func (r *ContentRepo) List(ctx context.Context) ([]model.PageContent, error) {
	const q = `SELECT ` + contentCols + ` FROM page_content ORDER BY page_id, display_order, id`
	return r.list(ctx, q)
}

// ListByPage returns the active blocks of one page.
func (r *ContentRepo) ListByPage(ctx context.Context, pageID string) ([]model.PageContent, error) {
	const q = `SELECT ` + contentCols + ` FROM page_content WHERE page_id=$1 AND is_active ORDER BY display_order, id`
	return r.list(ctx, q, pageID)
}

// Get returns a block by id or nil.
func (r *ContentRepo) Get(ctx context.Context, id int64) (*model.PageContent, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	const q = `SELECT ` + contentCols + ` FROM page_content WHERE id=$1`
	c, err := scanContent(pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a block.
func (r *ContentRepo) Create(ctx context.Context, in model.NewPageContent) (model.InsertResult, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return model.InsertResult{}, err
	}
	const q = `
INSERT INTO page_content (page_id, section_id, content, content_type, display_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	var id int64
	if err := pool.QueryRow(ctx, q, in.PageID, in.SectionID, in.Content, string(in.ContentType), in.DisplayOrder, in.IsActive).Scan(&id); err != nil {
		return model.InsertResult{}, err
	}
	return model.InsertResult{InsertID: id}, nil
}

// Update applies a partial update and re-reads the row.
func (r *ContentRepo) Update(ctx context.Context, id int64, p model.PageContentPatch) (*model.PageContent, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	var set patch
	setIf(&set, "page_id", p.PageID)
	setIf(&set, "section_id", p.SectionID)
	setIf(&set, "content", p.Content)
	if p.ContentType != nil {
		set.set("content_type", string(*p.ContentType))
	}
	setIf(&set, "display_order", p.DisplayOrder)
	setIf(&set, "is_active", p.IsActive)

	q, args := set.statement("page_content", id)
	if _, err := pool.Exec(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a block; missing ids are not an error.
func (r *ContentRepo) Delete(ctx context.Context, id int64) (model.Ack, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return model.Ack{}, err
	}
	if _, err := pool.Exec(ctx, `DELETE FROM page_content WHERE id=$1`, id); err != nil {
		return model.Ack{}, err
	}
	return model.Ack{Success: true}, nil
}
