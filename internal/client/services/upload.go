package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/client/notify"
	"github.com/securoserv/securovault/internal/logging"
)

// ErrNothingToUpload is returned when the selection resolves to no files.
var ErrNothingToUpload = errors.New("nothing to upload")

// UploadService coordinates file and folder uploads.
//
// Contract:
//   - Every selected file is read into memory before a single upload request
//     fires; a read failure anywhere aborts the whole batch.
//   - Progress is exposed as a 0-100 snapshot while a request streams and is
//     reset to zero shortly after it settles.
//   - Each batch produces exactly one notification, success or failure.
type UploadService interface {
	UploadFiles(ctx context.Context, paths []string) error
	UploadFolder(ctx context.Context, root string) error
	Progress() int
}

type uploadService struct {
	client   api.Client
	notifier notify.Notifier
	config   *config.Config
	log      logging.Logger
	sleep    func(time.Duration)

	progress atomic.Int64
}

// NewUploadService constructs an UploadService bound to the given API client
// and notifier.
func NewUploadService(client api.Client, notifier notify.Notifier, cfg *config.Config, log logging.Logger) UploadService {
	return &uploadService{
		client:   client,
		notifier: notifier,
		config:   cfg,
		log:      log,
		sleep:    time.Sleep,
	}
}

// Progress reports the current upload percentage, zero when idle.
func (u *uploadService) Progress() int {
	return int(u.progress.Load())
}

func (u *uploadService) observe(pct int) {
	u.progress.Store(int64(pct))
}

// resetProgress drops the indicator back to zero after the settle delay, so
// the CLI had a chance to render the final percentage.
func (u *uploadService) resetProgress() {
	u.sleep(u.config.SettleDelay)
	u.progress.Store(0)
}

// readFiles loads every path into memory. A single unreadable file fails the
// whole selection before anything is sent.
func readFiles(paths []string) ([]api.UploadFile, error) {
	var files []api.UploadFile
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, api.UploadFile{Name: filepath.Base(p), Content: content})
	}
	return files, nil
}

// readFolder walks root recursively and loads every regular file, recording
// its path relative to the folder's parent so the backend can rebuild the
// tree under the folder's own name.
func readFolder(root string) ([]api.UploadFile, error) {
	root = filepath.Clean(root)
	parent := filepath.Dir(root)

	var files []api.UploadFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		files = append(files, api.UploadFile{
			Name:         d.Name(),
			RelativePath: filepath.ToSlash(rel),
			Content:      content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (u *uploadService) run(ctx context.Context, files []api.UploadFile, send func(context.Context, []api.UploadFile, api.ProgressFunc) error, what string) error {
	if len(files) == 0 {
		return ErrNothingToUpload
	}

	defer u.resetProgress()
	if err := send(ctx, files, u.observe); err != nil {
		u.log.Warn(ctx, "upload failed", "what", what, "files", len(files), "error", err)
		u.notifier.Notify(notify.Error, "Upload failed", err.Error())
		return err
	}

	u.log.Info(ctx, "upload complete", "what", what, "files", len(files))
	u.notifier.Notify(notify.Success, fmt.Sprintf("Uploaded %s", what), "")
	return nil
}

// UploadFiles reads the selected files and sends them as one flat batch.
func (u *uploadService) UploadFiles(ctx context.Context, paths []string) error {
	files, err := readFiles(paths)
	if err != nil {
		u.notifier.Notify(notify.Error, "Upload failed", err.Error())
		return err
	}
	return u.run(ctx, files, u.client.UploadFiles, fmt.Sprintf("%d file(s)", len(files)))
}

// UploadFolder walks the folder and sends its files as one batch with their
// relative paths.
func (u *uploadService) UploadFolder(ctx context.Context, root string) error {
	files, err := readFolder(root)
	if err != nil {
		u.notifier.Notify(notify.Error, "Upload failed", err.Error())
		return err
	}
	return u.run(ctx, files, u.client.UploadFolder, fmt.Sprintf("folder %s", filepath.Base(root)))
}
