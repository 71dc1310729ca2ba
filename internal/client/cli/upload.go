package cli

import (
	"context"

	"github.com/dmitrijs2005/goblog/internal/client/uploads"
)

// Upload stores a local file through the configured upload backend and
// prints where it ended up.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("upload <file>")
	}
	if !a.requireLogin() {
		return nil
	}
	res, err := uploads.UploadFile(ctx, a.sink, args[0])
	if err != nil {
		return err
	}
	printlnFn("Uploaded:", res.Location())
	return nil
}
