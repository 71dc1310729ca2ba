package resources

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/goblog/internal/client/api"
	"github.com/dmitrijs2005/goblog/internal/client/models"
)

// Uploads posts files to the backend's /uploads endpoint.
type Uploads struct {
	api Caller
}

func NewUploads(c Caller) *Uploads {
	return &Uploads{api: c}
}

// Upload sends content as the "file" field of a multipart form.
func (u *Uploads) Upload(ctx context.Context, name string, content io.Reader) (models.UploadResult, error) {
	body := &api.Multipart{Files: []api.FilePart{{Field: "file", Filename: name, Content: content}}}
	resp, err := u.api.Request(ctx, http.MethodPost, "/uploads", body, nil)
	if err != nil {
		return models.UploadResult{}, err
	}
	var out models.UploadResult
	if err := resp.Decode(&out); err != nil {
		return models.UploadResult{}, err
	}
	return out, nil
}
