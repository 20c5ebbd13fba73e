package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/client/notify"
	"github.com/securoserv/securovault/internal/filex"
	"github.com/securoserv/securovault/internal/logging"
)

// VaultService lists, downloads and deletes stored items.
//
// Contract:
//   - Refresh replaces the cached listing only on success; a failed refresh
//     leaves the last good listing in place.
//   - Download saves the decrypted blob under the configured downloads
//     directory, preferring the backend-supplied filename over the stored
//     name with its encryption suffix stripped.
//   - Delete removes the file remotely and refreshes the listing. The CLI is
//     responsible for asking the user first.
type VaultService interface {
	Refresh(ctx context.Context) (*api.AllData, error)
	Cached() *api.AllData
	Download(ctx context.Context, item models.VaultItem) (string, error)
	Delete(ctx context.Context, fileID string) error
}

type vaultService struct {
	client   api.Client
	notifier notify.Notifier
	config   *config.Config
	log      logging.Logger

	mu     sync.Mutex
	cached *api.AllData
}

// NewVaultService constructs a VaultService bound to the given API client and
// notifier.
func NewVaultService(client api.Client, notifier notify.Notifier, cfg *config.Config, log logging.Logger) VaultService {
	return &vaultService{client: client, notifier: notifier, config: cfg, log: log}
}

// Refresh fetches the full listing and replaces the cache on success.
func (v *vaultService) Refresh(ctx context.Context) (*api.AllData, error) {
	data, err := v.client.AllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing error: %w", err)
	}

	v.mu.Lock()
	v.cached = data
	v.mu.Unlock()
	return data, nil
}

// Cached returns the last successfully fetched listing, nil before the first
// refresh.
func (v *vaultService) Cached() *api.AllData {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cached
}

// Download fetches the decrypted file and writes it into the downloads
// directory. The saved path is returned.
func (v *vaultService) Download(ctx context.Context, item models.VaultItem) (string, error) {
	res, err := v.client.Download(ctx, item.ID)
	if err != nil {
		v.notifier.Notify(notify.Error, "Download failed", err.Error())
		return "", err
	}

	name := res.Filename
	if name == "" {
		name = item.DisplayName()
	}

	dir, err := filex.EnsureSubDir(v.config.DownloadsDir)
	if err != nil {
		return "", fmt.Errorf("downloads dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, res.Body, 0o600); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	v.log.Info(ctx, "file downloaded", "file_id", item.ID, "path", path)
	v.notifier.Notify(notify.Success, "Downloaded "+name, "")
	return path, nil
}

// Delete removes the file remotely, then refreshes the listing so the cache
// reflects the deletion. A failed delete leaves the cache untouched.
func (v *vaultService) Delete(ctx context.Context, fileID string) error {
	if err := v.client.DeleteFile(ctx, fileID); err != nil {
		v.notifier.Notify(notify.Error, "Delete failed", err.Error())
		return fmt.Errorf("delete error: %w", err)
	}

	v.notifier.Notify(notify.Success, "File deleted", "")
	if _, err := v.Refresh(ctx); err != nil {
		v.log.Warn(ctx, "refresh after delete failed", "error", err)
	}
	return nil
}
