package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects as files under a root directory, served at BaseURL.
type Local struct {
	Root    string
	BaseURL string
}

// NewLocal returns a Local store rooted at dir.
func NewLocal(dir, baseURL string) *Local {
	return &Local{Root: dir, BaseURL: baseURL}
}

// Put writes data to Root/key and returns BaseURL/key.
func (l *Local) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	dst := filepath.Join(l.Root, clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return joinURL(l.BaseURL, key), nil
}
