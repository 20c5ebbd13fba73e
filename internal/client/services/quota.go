package services

import (
	"context"
	"sync"
	"time"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/client/session"
	"github.com/securoserv/securovault/internal/common"
	"github.com/securoserv/securovault/internal/logging"
)

// QuotaService tracks storage usage against the role-based quota.
//
// Contract:
//   - Snapshot fetches the current usage and derives the total from the
//     stored role.
//   - The poller refreshes on a fixed interval while a session exists. A
//     result that arrives after logout is discarded, never cached.
type QuotaService interface {
	Snapshot(ctx context.Context) (*models.StorageQuota, error)
	Latest() *models.StorageQuota
	Drop()
	StartPoller(ctx context.Context)
}

type quotaService struct {
	client api.Client
	store  session.Store
	config *config.Config
	log    logging.Logger

	mu     sync.Mutex
	latest *models.StorageQuota
}

// NewQuotaService constructs a QuotaService bound to the given API client and
// session store.
func NewQuotaService(client api.Client, store session.Store, cfg *config.Config, log logging.Logger) QuotaService {
	return &quotaService{client: client, store: store, config: cfg, log: log}
}

// Snapshot fetches the usage and caches it, unless the session disappeared
// while the request was in flight.
func (q *quotaService) Snapshot(ctx context.Context) (*models.StorageQuota, error) {
	role, err := q.store.Role(ctx)
	if err != nil {
		return nil, err
	}

	used, err := q.client.StorageUsed(ctx)
	if err != nil {
		return nil, err
	}

	// a logout during the request must not resurrect a stale snapshot
	token, err := q.store.Token(ctx)
	if err != nil || token == "" {
		return nil, common.ErrNoToken
	}

	snap := &models.StorageQuota{UsedMB: used, TotalMB: q.config.QuotaForRole(string(role))}
	q.mu.Lock()
	q.latest = snap
	q.mu.Unlock()
	return snap, nil
}

// Latest returns the last cached snapshot, nil when none was taken yet or the
// session ended.
func (q *quotaService) Latest() *models.StorageQuota {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.latest
}

// Drop clears the cached snapshot. The CLI calls it on logout.
func (q *quotaService) Drop() {
	q.mu.Lock()
	q.latest = nil
	q.mu.Unlock()
}

// StartPoller refreshes the snapshot on the configured interval until the
// context ends. Ticks without a session are skipped.
func (q *quotaService) StartPoller(ctx context.Context) {
	ticker := time.NewTicker(q.config.QuotaPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			token, err := q.store.Token(ctx)
			if err != nil || token == "" {
				q.Drop()
				continue
			}

			tickCtx, cancel := context.WithTimeout(ctx, q.config.RequestTimeout)
			if _, err := q.Snapshot(tickCtx); err != nil {
				q.log.Warn(ctx, "quota refresh failed", "error", err)
			}
			cancel()

		case <-ctx.Done():
			return
		}
	}
}
