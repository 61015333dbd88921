package api

import (
	"context"

	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/procedure"
	"github.com/stonesign/plaque-cms/internal/render"
	"github.com/stonesign/plaque-cms/internal/repository"
)

type pageInput struct {
	PageID string `json:"pageId" validate:"required"`
}

type contentCreateInput struct {
	PageID       string  `json:"pageId" validate:"required,max=100"`
	SectionID    string  `json:"sectionId" validate:"required,max=100"`
	Content      *string `json:"content" validate:"required"`
	ContentType  string  `json:"contentType" validate:"oneof=text markdown html"`
	DisplayOrder *int    `json:"displayOrder" validate:"required"`
	IsActive     *bool   `json:"isActive" validate:"required"`
}

func (in *contentCreateInput) ApplyDefaults() {
	if in.ContentType == "" {
		in.ContentType = string(model.ContentText)
	}
	defaultInt(&in.DisplayOrder, 0)
	defaultBool(&in.IsActive, true)
}

type contentUpdateInput struct {
	ID           int64   `json:"id" validate:"required"`
	PageID       *string `json:"pageId" validate:"omitnil,min=1,max=100"`
	SectionID    *string `json:"sectionId" validate:"omitnil,min=1,max=100"`
	Content      *string `json:"content"`
	ContentType  *string `json:"contentType" validate:"omitnil,oneof=text markdown html"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

func (in contentUpdateInput) patch() model.PageContentPatch {
	p := model.PageContentPatch{
		PageID:       in.PageID,
		SectionID:    in.SectionID,
		Content:      in.Content,
		DisplayOrder: in.DisplayOrder,
		IsActive:     in.IsActive,
	}
	if in.ContentType != nil {
		ct := model.ContentType(*in.ContentType)
		p.ContentType = &ct
	}
	return p
}

func contentProcedures(repo repository.PageContentRepository, r *render.Renderer) []*procedure.Procedure {
	return []*procedure.Procedure{
		procedure.NewQuery("getByPage", func(ctx context.Context, _ *model.User, in pageInput) ([]model.PageContent, error) {
			return repo.ListByPage(ctx, in.PageID)
		}),
		procedure.NewQuery("renderPage", func(ctx context.Context, _ *model.User, in pageInput) ([]model.RenderedBlock, error) {
			blocks, err := repo.ListByPage(ctx, in.PageID)
			if err != nil {
				return nil, err
			}
			return r.Page(blocks)
		}),
		procedure.NewQuery("getAll", func(ctx context.Context, _ *model.User, _ procedure.Empty) ([]model.PageContent, error) {
			return repo.List(ctx)
		}, procedure.AdminOnly()),
		procedure.NewMutation("create", func(ctx context.Context, _ *model.User, in contentCreateInput) (model.InsertResult, error) {
			return repo.Create(ctx, model.NewPageContent{
				PageID:       in.PageID,
				SectionID:    in.SectionID,
				Content:      *in.Content,
				ContentType:  model.ContentType(in.ContentType),
				DisplayOrder: *in.DisplayOrder,
				IsActive:     *in.IsActive,
			})
		}, procedure.AdminOnly()),
		procedure.NewMutation("update", func(ctx context.Context, _ *model.User, in contentUpdateInput) (*model.PageContent, error) {
			return repo.Update(ctx, in.ID, in.patch())
		}, procedure.AdminOnly()),
		procedure.NewMutation("delete", func(ctx context.Context, _ *model.User, in idInput) (model.Ack, error) {
			return repo.Delete(ctx, in.ID)
		}, procedure.AdminOnly()),
	}
}
