// Package api declares the CMS procedure tree: auth, content, media and gallery.
package api

import (
	"context"

	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/procedure"
	"github.com/stonesign/plaque-cms/internal/render"
	"github.com/stonesign/plaque-cms/internal/repository"
	"github.com/stonesign/plaque-cms/internal/service"
)

// Uploader stores an uploaded file and records its metadata.
type Uploader interface {
	Upload(ctx context.Context, uploadedBy int64, in service.Upload) (model.UploadResult, error)
}

// Deps are the collaborators the procedures delegate to.
type Deps struct {
	Content  repository.PageContentRepository
	Media    repository.MediaAssetRepository
	Gallery  repository.GalleryItemRepository
	Uploader Uploader
	Renderer *render.Renderer
}

// NewRouter builds the full procedure tree.
func NewRouter(d Deps) *procedure.Router {
	if d.Renderer == nil {
		d.Renderer = render.New()
	}
	r := procedure.NewRouter()
	r.Mount("auth", authProcedures()...)
	r.Mount("content", contentProcedures(d.Content, d.Renderer)...)
	r.Mount("media", mediaProcedures(d.Media, d.Uploader)...)
	r.Mount("gallery", galleryProcedures(d.Gallery)...)
	return r
}

func authProcedures() []*procedure.Procedure {
	return []*procedure.Procedure{
		procedure.NewQuery("me", func(_ context.Context, caller *model.User, _ procedure.Empty) (*model.User, error) {
			return caller, nil
		}),
	}
}

type idInput struct {
	ID int64 `json:"id" validate:"required"`
}

func defaultInt(p **int, v int) {
	if *p == nil {
		*p = &v
	}
}

func defaultBool(p **bool, v bool) {
	if *p == nil {
		*p = &v
	}
}
