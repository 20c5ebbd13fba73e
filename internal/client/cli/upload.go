package cli

import (
	"context"
	"fmt"
)

// Upload sends the named files as one batch.
func (a *App) Upload(ctx context.Context, args []string) error {
	if !a.requireLogin(ctx) {
		return nil
	}
	if len(args) == 0 {
		fmt.Println("Usage: upload <file> [file...]")
		return nil
	}
	return a.uploads.UploadFiles(ctx, args)
}

// UploadFolder sends a whole directory tree as one batch.
func (a *App) UploadFolder(ctx context.Context, args []string) error {
	if !a.requireLogin(ctx) {
		return nil
	}
	if len(args) != 1 {
		fmt.Println("Usage: uploadfolder <dir>")
		return nil
	}
	return a.uploads.UploadFolder(ctx, args[0])
}
