// Package model defines domain entities used by procedures and repositories.
package model

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ContentType tells the UI how a page block must be rendered.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentMarkdown ContentType = "markdown"
	ContentHTML     ContentType = "html"
)

// Valid reports whether c is one of the known content types.
func (c ContentType) Valid() bool {
	switch c {
	case ContentText, ContentMarkdown, ContentHTML:
		return true
	}
	return false
}

// User is owned by the login flow; procedures only read ID and Role.
type User struct {
	ID           int64     `json:"id"`
	OpenID       string    `json:"openId"`
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	LoginMethod  *string   `json:"loginMethod"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

// IsAdmin reports whether u holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// PageContent is a named slot of editable text bound to a page.
// (PageID, SectionID) is not unique.
type PageContent struct {
	ID           int64       `json:"id"`
	PageID       string      `json:"pageId"`
	SectionID    string      `json:"sectionId"`
	Content      string      `json:"content"`
	ContentType  ContentType `json:"contentType"`
	DisplayOrder int         `json:"displayOrder"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// NewPageContent carries the fields of a page block insert.
type NewPageContent struct {
	PageID       string
	SectionID    string
	Content      string
	ContentType  ContentType
	DisplayOrder int
	IsActive     bool
}

// PageContentPatch replaces only the non-nil fields.
type PageContentPatch struct {
	PageID       *string
	SectionID    *string
	Content      *string
	ContentType  *ContentType
	DisplayOrder *int
	IsActive     *bool
}

// MediaAsset is the metadata record of an uploaded file.
type MediaAsset struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	FileKey      string    `json:"fileKey"`
	URL          string    `json:"url"`
	MimeType     string    `json:"mimeType"`
	FileSize     int64     `json:"fileSize"`
	AltText      *string   `json:"altText"`
	UsageContext *string   `json:"usageContext"`
	UploadedBy   int64     `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewMediaAsset carries the fields of a media insert.
type NewMediaAsset struct {
	Filename     string
	FileKey      string
	URL          string
	MimeType     string
	FileSize     int64
	AltText      *string
	UsageContext *string
	UploadedBy   int64
}

// MediaAssetPatch replaces only the non-nil metadata fields; the stored object is never touched.
type MediaAssetPatch struct {
	AltText      *string
	UsageContext *string
}

// GalleryItem is a curated display entry. MediaAssetID is a weak reference.
type GalleryItem struct {
	ID           int64     `json:"id"`
	MediaAssetID int64     `json:"mediaAssetId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// GalleryEntry is a gallery item joined with its media asset.
// ImageURL and AltText are nil when the referenced asset no longer exists.
type GalleryEntry struct {
	GalleryItem
	ImageURL *string `json:"imageUrl"`
	AltText  *string `json:"altText"`
}

// NewGalleryItem carries the fields of a gallery insert.
type NewGalleryItem struct {
	MediaAssetID int64
	Title        string
	Description  *string
	Category     *string
	DisplayOrder int
	IsActive     bool
}

// GalleryItemPatch replaces only the non-nil fields.
type GalleryItemPatch struct {
	MediaAssetID *int64
	Title        *string
	Description  *string
	Category     *string
	DisplayOrder *int
	IsActive     *bool
}

// InsertResult acknowledges an insert. Callers re-fetch when they need the row.
type InsertResult struct {
	InsertID int64 `json:"insertId"`
}

// Ack is returned by deletes, whether or not a row existed.
type Ack struct {
	Success bool `json:"success"`
}

// UploadResult is what media.upload hands back to the caller.
type UploadResult struct {
	URL     string `json:"url"`
	FileKey string `json:"fileKey"`
}

// RenderedBlock is a page block converted to HTML according to its content type.
type RenderedBlock struct {
	SectionID   string      `json:"sectionId"`
	ContentType ContentType `json:"contentType"`
	HTML        string      `json:"html"`
}
