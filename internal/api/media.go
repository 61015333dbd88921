package api

import (
	"context"

	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/procedure"
	"github.com/stonesign/plaque-cms/internal/repository"
	"github.com/stonesign/plaque-cms/internal/service"
)

type contextInput struct {
	UsageContext string `json:"usageContext" validate:"required"`
}

type uploadInput struct {
	Filename     string `json:"filename" validate:"required,max=255"`
	FileData     string `json:"fileData" validate:"required"`
	MimeType     string `json:"mimeType" validate:"required,max=100"`
	AltText      string `json:"altText"`
	UsageContext string `json:"usageContext" validate:"max=100"`
}

type mediaUpdateInput struct {
	ID           int64   `json:"id" validate:"required"`
	AltText      *string `json:"altText"`
	UsageContext *string `json:"usageContext" validate:"omitnil,max=100"`
}

func mediaProcedures(repo repository.MediaAssetRepository, up Uploader) []*procedure.Procedure {
	return []*procedure.Procedure{
		procedure.NewQuery("getAll", func(ctx context.Context, _ *model.User, _ procedure.Empty) ([]model.MediaAsset, error) {
			return repo.List(ctx)
		}),
		procedure.NewQuery("getByContext", func(ctx context.Context, _ *model.User, in contextInput) ([]model.MediaAsset, error) {
			return repo.ListByContext(ctx, in.UsageContext)
		}),
		procedure.NewMutation("upload", func(ctx context.Context, caller *model.User, in uploadInput) (model.UploadResult, error) {
			return up.Upload(ctx, caller.ID, service.Upload{
				Filename:     in.Filename,
				FileData:     in.FileData,
				MimeType:     in.MimeType,
				AltText:      in.AltText,
				UsageContext: in.UsageContext,
			})
		}, procedure.AdminOnly()),
		procedure.NewMutation("update", func(ctx context.Context, _ *model.User, in mediaUpdateInput) (*model.MediaAsset, error) {
			return repo.Update(ctx, in.ID, model.MediaAssetPatch{AltText: in.AltText, UsageContext: in.UsageContext})
		}, procedure.AdminOnly()),
		procedure.NewMutation("delete", func(ctx context.Context, _ *model.User, in idInput) (model.Ack, error) {
			return repo.Delete(ctx, in.ID)
		}, procedure.AdminOnly()),
	}
}
