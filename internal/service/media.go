// Package service contains application services that span storage and repositories.
package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/stonesign/plaque-cms/internal/errs"
	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/repository"
	"github.com/stonesign/plaque-cms/internal/storage"
)

// KeyPrefix namespaces every uploaded object.
const KeyPrefix = "cms-media/"

// Upload carries a media.upload request after input validation.
type Upload struct {
	Filename     string
	FileData     string // base64, standard alphabet
	MimeType     string
	AltText      string
	UsageContext string
}

// MediaService stores uploaded files and records their metadata.
type MediaService struct {
	media repository.MediaAssetRepository
	blobs storage.Blobs
	newID func() (uuid.UUID, error)
}

// NewMediaService constructs MediaService with required dependencies.
func NewMediaService(media repository.MediaAssetRepository, blobs storage.Blobs) *MediaService {
	return &MediaService{media: media, blobs: blobs, newID: uuid.NewV4}
}

// FileKey builds the object key for an upload. Directory parts of filename are dropped.
func FileKey(id uuid.UUID, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	return KeyPrefix + id.String() + "-" + base
}

// Upload decodes the payload, writes it to blob storage and then inserts the metadata row.
// Nothing is inserted when the blob write fails.
func (s *MediaService) Upload(ctx context.Context, uploadedBy int64, in Upload) (model.UploadResult, error) {
	data, err := decodeBase64(in.FileData)
	if err != nil {
		return model.UploadResult{}, errs.Invalid("fileData", "must be valid base64")
	}

	id, err := s.newID()
	if err != nil {
		return model.UploadResult{}, err
	}
	key := FileKey(id, in.Filename)

	url, err := s.blobs.Put(ctx, key, data, in.MimeType)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("store %s: %w", key, err)
	}

	_, err = s.media.Create(ctx, model.NewMediaAsset{
		Filename:     in.Filename,
		FileKey:      key,
		URL:          url,
		MimeType:     in.MimeType,
		FileSize:     int64(len(data)),
		AltText:      optional(in.AltText),
		UsageContext: optional(in.UsageContext),
		UploadedBy:   uploadedBy,
	})
	if err != nil {
		return model.UploadResult{}, err
	}
	return model.UploadResult{URL: url, FileKey: key}, nil
}

// decodeBase64 accepts standard base64 with or without trailing padding.
func decodeBase64(s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return base64.RawStdEncoding.DecodeString(s)
	}
	return base64.StdEncoding.DecodeString(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
