// Package uploads stores files referenced by articles and profiles. Files go
// either through the blog API (multipart POST /uploads) or straight into an
// S3 bucket, depending on configuration.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/goblog/internal/client/config"
	"github.com/dmitrijs2005/goblog/internal/client/models"
)

// Sink accepts one file and reports where it ended up.
type Sink interface {
	Upload(ctx context.Context, name string, content io.Reader) (models.UploadResult, error)
}

// New picks the sink configured in cfg. api is the REST sink, used for the
// "api" backend.
func New(ctx context.Context, cfg *config.Config, api Sink) (Sink, error) {
	switch cfg.UploadBackend {
	case config.UploadBackendS3:
		return NewS3Sink(ctx, cfg)
	case config.UploadBackendAPI, "":
		return api, nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
	}
}

// UploadFile sends the local file at path to sink under its base name.
func UploadFile(ctx context.Context, sink Sink, path string) (models.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := sink.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("upload %s: %w", path, err)
	}
	return res, nil
}
