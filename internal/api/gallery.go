package api

import (
	"context"

	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/procedure"
	"github.com/stonesign/plaque-cms/internal/repository"
)

type galleryCreateInput struct {
	MediaAssetID int64   `json:"mediaAssetId" validate:"required"`
	Title        string  `json:"title" validate:"required,max=255"`
	Description  *string `json:"description"`
	Category     *string `json:"category" validate:"omitnil,max=100"`
	DisplayOrder *int    `json:"displayOrder" validate:"required"`
	IsActive     *bool   `json:"isActive" validate:"required"`
}

func (in *galleryCreateInput) ApplyDefaults() {
	defaultInt(&in.DisplayOrder, 0)
	defaultBool(&in.IsActive, true)
}

type galleryUpdateInput struct {
	ID           int64   `json:"id" validate:"required"`
	MediaAssetID *int64  `json:"mediaAssetId"`
	Title        *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description  *string `json:"description"`
	Category     *string `json:"category" validate:"omitnil,max=100"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

func galleryProcedures(repo repository.GalleryItemRepository) []*procedure.Procedure {
	return []*procedure.Procedure{
		procedure.NewQuery("getActive", func(ctx context.Context, _ *model.User, _ procedure.Empty) ([]model.GalleryEntry, error) {
			return repo.ListActive(ctx)
		}),
		procedure.NewQuery("getAll", func(ctx context.Context, _ *model.User, _ procedure.Empty) ([]model.GalleryEntry, error) {
			return repo.List(ctx)
		}, procedure.AdminOnly()),
		procedure.NewMutation("create", func(ctx context.Context, _ *model.User, in galleryCreateInput) (model.InsertResult, error) {
			return repo.Create(ctx, model.NewGalleryItem{
				MediaAssetID: in.MediaAssetID,
				Title:        in.Title,
				Description:  in.Description,
				Category:     in.Category,
				DisplayOrder: *in.DisplayOrder,
				IsActive:     *in.IsActive,
			})
		}, procedure.AdminOnly()),
		procedure.NewMutation("update", func(ctx context.Context, _ *model.User, in galleryUpdateInput) (*model.GalleryItem, error) {
			return repo.Update(ctx, in.ID, model.GalleryItemPatch{
				MediaAssetID: in.MediaAssetID,
				Title:        in.Title,
				Description:  in.Description,
				Category:     in.Category,
				DisplayOrder: in.DisplayOrder,
				IsActive:     in.IsActive,
			})
		}, procedure.AdminOnly()),
		procedure.NewMutation("delete", func(ctx context.Context, _ *model.User, in idInput) (model.Ack, error) {
			return repo.Delete(ctx, in.ID)
		}, procedure.AdminOnly()),
	}
}
