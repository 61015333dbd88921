package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stonesign/plaque-cms/internal/model"
)

// memStore is an in-memory stand-in for the three CMS repositories.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	content map[int64]model.PageContent
	media   map[int64]model.MediaAsset
	gallery map[int64]model.GalleryItem
	err     error
}

func newMemStore() *memStore {
	return &memStore{
		content: map[int64]model.PageContent{},
		media:   map[int64]model.MediaAsset{},
		gallery: map[int64]model.GalleryItem{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

type contentRepo struct{ *memStore }

func (r contentRepo) List(context.Context) ([]model.PageContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []model.PageContent{}
	for _, c := range r.content {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PageID != b.PageID {
			return a.PageID < b.PageID
		}
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r contentRepo) ListByPage(ctx context.Context, pageID string) ([]model.PageContent, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.PageContent{}
	for _, c := range all {
		if c.PageID == pageID && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r contentRepo) Get(_ context.Context, id int64) (*model.PageContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.content[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r contentRepo) Create(_ context.Context, in model.NewPageContent) (model.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return model.InsertResult{}, r.err
	}
	now := time.Now()
	id := r.id()
	r.content[id] = model.PageContent{
		ID: id, PageID: in.PageID, SectionID: in.SectionID, Content: in.Content,
		ContentType: in.ContentType, DisplayOrder: in.DisplayOrder, IsActive: in.IsActive,
		CreatedAt: now, UpdatedAt: now,
	}
	return model.InsertResult{InsertID: id}, nil
}

func (r contentRepo) Update(ctx context.Context, id int64, p model.PageContentPatch) (*model.PageContent, error) {
	r.mu.Lock()
	if c, ok := r.content[id]; ok {
		apply(&c.PageID, p.PageID)
		apply(&c.SectionID, p.SectionID)
		apply(&c.Content, p.Content)
		apply(&c.ContentType, p.ContentType)
		apply(&c.DisplayOrder, p.DisplayOrder)
		apply(&c.IsActive, p.IsActive)
		c.UpdatedAt = time.Now()
		r.content[id] = c
	}
	r.mu.Unlock()
	return r.Get(ctx, id)
}

func (r contentRepo) Delete(_ context.Context, id int64) (model.Ack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.content, id)
	return model.Ack{Success: true}, nil
}

type mediaRepo struct{ *memStore }

func (r mediaRepo) List(context.Context) ([]model.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.MediaAsset{}
	for _, m := range r.media {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r mediaRepo) ListByContext(ctx context.Context, usage string) ([]model.MediaAsset, error) {
	all, _ := r.List(ctx)
	out := []model.MediaAsset{}
	for _, m := range all {
		if m.UsageContext != nil && *m.UsageContext == usage {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r mediaRepo) Get(_ context.Context, id int64) (*model.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.media[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r mediaRepo) Create(_ context.Context, in model.NewMediaAsset) (model.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	id := r.id()
	r.media[id] = model.MediaAsset{
		ID: id, Filename: in.Filename, FileKey: in.FileKey, URL: in.URL, MimeType: in.MimeType,
		FileSize: in.FileSize, AltText: in.AltText, UsageContext: in.UsageContext, UploadedBy: in.UploadedBy,
		CreatedAt: now, UpdatedAt: now,
	}
	return model.InsertResult{InsertID: id}, nil
}

func (r mediaRepo) Update(ctx context.Context, id int64, p model.MediaAssetPatch) (*model.MediaAsset, error) {
	r.mu.Lock()
	if m, ok := r.media[id]; ok {
		if p.AltText != nil {
			m.AltText = p.AltText
		}
		if p.UsageContext != nil {
			m.UsageContext = p.UsageContext
		}
		r.media[id] = m
	}
	r.mu.Unlock()
	return r.Get(ctx, id)
}

func (r mediaRepo) Delete(_ context.Context, id int64) (model.Ack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.media, id)
	return model.Ack{Success: true}, nil
}

type galleryRepo struct{ *memStore }

func (r galleryRepo) joined(activeOnly bool) []model.GalleryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.GalleryEntry{}
	for _, g := range r.gallery {
		if activeOnly && !g.IsActive {
			continue
		}
		e := model.GalleryEntry{GalleryItem: g}
		if m, ok := r.media[g.MediaAssetID]; ok {
			url := m.URL
			e.ImageURL = &url
			e.AltText = m.AltText
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r galleryRepo) List(context.Context) ([]model.GalleryEntry, error) { return r.joined(false), nil }

func (r galleryRepo) ListActive(context.Context) ([]model.GalleryEntry, error) {
	return r.joined(true), nil
}

func (r galleryRepo) Get(_ context.Context, id int64) (*model.GalleryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gallery[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r galleryRepo) Create(_ context.Context, in model.NewGalleryItem) (model.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	id := r.id()
	r.gallery[id] = model.GalleryItem{
		ID: id, MediaAssetID: in.MediaAssetID, Title: in.Title, Description: in.Description,
		Category: in.Category, DisplayOrder: in.DisplayOrder, IsActive: in.IsActive,
		CreatedAt: now, UpdatedAt: now,
	}
	return model.InsertResult{InsertID: id}, nil
}

func (r galleryRepo) Update(ctx context.Context, id int64, p model.GalleryItemPatch) (*model.GalleryItem, error) {
	r.mu.Lock()
	if g, ok := r.gallery[id]; ok {
		apply(&g.MediaAssetID, p.MediaAssetID)
		apply(&g.Title, p.Title)
		if p.Description != nil {
			g.Description = p.Description
		}
		if p.Category != nil {
			g.Category = p.Category
		}
		apply(&g.DisplayOrder, p.DisplayOrder)
		apply(&g.IsActive, p.IsActive)
		r.gallery[id] = g
	}
	r.mu.Unlock()
	return r.Get(ctx, id)
}

func (r galleryRepo) Delete(_ context.Context, id int64) (model.Ack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.gallery, id)
	return model.Ack{Success: true}, nil
}
