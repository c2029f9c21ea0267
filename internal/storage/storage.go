package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"
)

// MediaStore persists an uploaded file and returns the URL clients use
// to fetch it.
type MediaStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// MediaFilename builds a collision-resistant name for an upload,
// keeping the original extension: e.g. status_1712345678901.png.
func MediaFilename(prefix, original string) string {
	return fmt.Sprintf("%s_%d%s", prefix, time.Now().UnixMilli(), filepath.Ext(original))
}
