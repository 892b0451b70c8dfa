package pdf

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flexprice/invoicedoc/internal/cache"
	"github.com/flexprice/invoicedoc/internal/config"
	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/types"
)

// Preview is a stored preview document
type Preview struct {
	ID       string
	Filename string
	Data     []byte
}

// PreviewHandle owns one stored preview until Release is called or the
// store TTL expires it
type PreviewHandle struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Size      int       `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`

	store    *PreviewStore
	tenantID string
	once     sync.Once
}

// Release frees the preview. Safe to call more than once.
func (h *PreviewHandle) Release() {
	if h == nil || h.store == nil {
		return
	}
	h.once.Do(func() {
		h.store.delete(h.tenantID, h.ID)
	})
}

// PreviewStore keeps rendered previews in memory, keyed per tenant. The TTL
// is a backstop for callers that never release.
type PreviewStore struct {
	cache  cache.Cache
	ttl    time.Duration
	live   atomic.Int64
	logger *logger.Logger
}

func NewPreviewStore(c cache.Cache, cfg *config.Configuration, log *logger.Logger) *PreviewStore {
	if log == nil {
		log = logger.NewNopLogger()
	}
	ttl := cache.DefaultExpiration
	if cfg != nil && cfg.Preview.TTL > 0 {
		ttl = cfg.Preview.TTL
	}

	s := &PreviewStore{cache: c, ttl: ttl, logger: log}
	c.OnEvicted(func(key string, _ interface{}) {
		s.live.Add(-1)
		s.logger.Debugw("preview evicted", "key", key)
	})
	return s
}

// Put stores data and hands back the owning handle
func (s *PreviewStore) Put(ctx context.Context, filename string, data []byte) *PreviewHandle {
	tenantID := types.GetTenantID(ctx)
	id := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PREVIEW)

	s.cache.Set(ctx, s.key(tenantID, id), &Preview{ID: id, Filename: filename, Data: data}, s.ttl)
	s.live.Add(1)

	_, expiresAt, _ := s.cache.GetWithExpiration(ctx, s.key(tenantID, id))
	return &PreviewHandle{
		ID:        id,
		Filename:  filename,
		Size:      len(data),
		ExpiresAt: expiresAt,
		store:     s,
		tenantID:  tenantID,
	}
}

// Open returns the stored preview of the calling tenant
func (s *PreviewStore) Open(ctx context.Context, id string) (*Preview, error) {
	v, ok := s.cache.Get(ctx, s.key(types.GetTenantID(ctx), id))
	if !ok {
		return nil, ierr.NewErrorf("preview %s not found", id).
			WithHint("Preview not found or expired").
			WithReportableDetails(map[string]any{"preview_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return v.(*Preview), nil
}

// Release frees a preview by id, for callers that no longer hold the handle
func (s *PreviewStore) Release(ctx context.Context, id string) error {
	tenantID := types.GetTenantID(ctx)
	if _, ok := s.cache.Get(ctx, s.key(tenantID, id)); !ok {
		return ierr.NewErrorf("preview %s not found", id).
			WithHint("Preview not found or already released").
			WithReportableDetails(map[string]any{"preview_id": id}).
			Mark(ierr.ErrNotFound)
	}
	s.delete(tenantID, id)
	return nil
}

// Live is the number of previews not yet released or evicted
func (s *PreviewStore) Live() int {
	return int(s.live.Load())
}

func (s *PreviewStore) delete(tenantID, id string) {
	s.cache.Delete(context.Background(), s.key(tenantID, id))
}

func (s *PreviewStore) key(tenantID, id string) string {
	return cache.GenerateKey(cache.PrefixPreview, tenantID, id)
}
