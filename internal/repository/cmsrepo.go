package repository

import (
	"context"

	"github.com/stonesign/plaque-cms/internal/model"
)

// PageContentRepository provides access to editable page blocks.
type PageContentRepository interface {
	// List returns every block ordered by page, display order and insertion order.
	List(ctx context.Context) ([]model.PageContent, error)
	// ListByPage returns the active blocks of a page in display order.
	ListByPage(ctx context.Context, pageID string) ([]model.PageContent, error)
	// Get returns a single block; nil when absent.
	Get(ctx context.Context, id int64) (*model.PageContent, error)
	// Create inserts a block and acknowledges with its id.
	Create(ctx context.Context, in model.NewPageContent) (model.InsertResult, error)
	// Update applies the patch, refreshes updated_at and returns the re-read row (nil when absent).
	Update(ctx context.Context, id int64, p model.PageContentPatch) (*model.PageContent, error)
	// Delete removes the block; deleting a missing id succeeds.
	Delete(ctx context.Context, id int64) (model.Ack, error)
}

// MediaAssetRepository provides access to uploaded file metadata.
type MediaAssetRepository interface {
	// List returns every asset, newest first.
	List(ctx context.Context) ([]model.MediaAsset, error)
	// ListByContext returns the assets tagged with usageContext, newest first.
	ListByContext(ctx context.Context, usageContext string) ([]model.MediaAsset, error)
	// Get returns a single asset; nil when absent.
	Get(ctx context.Context, id int64) (*model.MediaAsset, error)
	// Create inserts an asset row and acknowledges with its id.
	Create(ctx context.Context, in model.NewMediaAsset) (model.InsertResult, error)
	// Update applies the metadata patch and returns the re-read row (nil when absent).
	Update(ctx context.Context, id int64, p model.MediaAssetPatch) (*model.MediaAsset, error)
	// Delete removes the row only; the stored object is left alone.
	Delete(ctx context.Context, id int64) (model.Ack, error)
}

// GalleryItemRepository provides access to curated gallery entries.
type GalleryItemRepository interface {
	// List returns every item joined with its media asset, in display order.
	List(ctx context.Context) ([]model.GalleryEntry, error)
	// ListActive returns the active items joined with their media assets, in display order.
	ListActive(ctx context.Context) ([]model.GalleryEntry, error)
	// Get returns a single item without the join; nil when absent.
	Get(ctx context.Context, id int64) (*model.GalleryItem, error)
	// Create inserts an item; the media reference is not checked.
	Create(ctx context.Context, in model.NewGalleryItem) (model.InsertResult, error)
	// Update applies the patch and returns the re-read row (nil when absent).
	Update(ctx context.Context, id int64, p model.GalleryItemPatch) (*model.GalleryItem, error)
	// Delete removes the item; deleting a missing id succeeds.
	Delete(ctx context.Context, id int64) (model.Ack, error)
}
