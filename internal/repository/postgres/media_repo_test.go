package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/stonesign/plaque-cms/internal/model"
)

var mediaColNames = []string{"id", "filename", "file_key", "url", "mime_type", "file_size", "alt_text", "usage_context", "uploaded_by", "created_at", "updated_at"}

func TestMediaRepo_ListByContext(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMediaRepo(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM media_assets WHERE usage_context=$1 ORDER BY created_at DESC, id DESC`)).
		WithArgs("hero").
		WillReturnRows(pgxmock.NewRows(mediaColNames).
			AddRow(int64(2), "b.png", "cms-media/x-b.png", "/media/cms-media/x-b.png", "image/png", int64(70), nil, strp("hero"), int64(1), now, now))

	got, err := r.ListByContext(context.Background(), "hero")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, got[0].AltText)
	require.Equal(t, "hero", *got[0].UsageContext)
}

func TestMediaRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMediaRepo(db)
	in := model.NewMediaAsset{
		Filename: "a.png", FileKey: "cms-media/k-a.png", URL: "http://s3/b/cms-media/k-a.png",
		MimeType: "image/png", FileSize: 10, AltText: strp("alt"), UploadedBy: 1,
	}

	mock.ExpectQuery(`INSERT INTO media_assets`).
		WithArgs(in.Filename, in.FileKey, in.URL, in.MimeType, in.FileSize, in.AltText, in.UsageContext, in.UploadedBy).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(8)))

	res, err := r.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, int64(8), res.InsertID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepo_Update_MetadataOnly(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMediaRepo(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE media_assets SET alt_text=$2, updated_at=now() WHERE id=$1`)).
		WithArgs(int64(4), "new alt").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM media_assets WHERE id=$1`)).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(mediaColNames).
			AddRow(int64(4), "a.png", "k", "u", "image/png", int64(1), strp("new alt"), nil, int64(1), now, now))

	got, err := r.Update(context.Background(), 4, model.MediaAssetPatch{AltText: strp("new alt")})
	require.NoError(t, err)
	require.Equal(t, "new alt", *got.AltText)
	require.Equal(t, "k", got.FileKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMediaRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM media_assets WHERE id=$1`)).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	ack, err := r.Delete(context.Background(), 4)
	require.NoError(t, err)
	require.True(t, ack.Success)
}
