package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"scholarport/internal/config"
	"scholarport/internal/model"
	"scholarport/internal/storage"
)

// BackupPrefix is the key prefix of every portfolio backup object.
const BackupPrefix = "backups/"

const backupKeyLayout = "20060102T150405Z"

// BackupService exports the portfolio and archives it in object storage.
type BackupService interface {
	// Snapshot returns every article with its citations.
	Snapshot(ctx context.Context) (*model.Snapshot, error)

	// Backup uploads a gzipped snapshot and prunes old backups.
	// It returns ErrStorageDisabled when no object storage is configured.
	Backup(ctx context.Context) (*model.BackupResult, error)
}

type backupService struct {
	articles ArticleService
	store    storage.Storage
	cfg      config.BackupConfig
	log      *zap.Logger
	runs     *prometheus.CounterVec
	now      func() time.Time
}

// NewBackupService constructs a BackupService. store may be nil, in which case
// only Snapshot is available. The run counter is registered on reg.
func NewBackupService(articles ArticleService, store storage.Storage, cfg config.BackupConfig, reg prometheus.Registerer, log *zap.Logger) (BackupService, error) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarport_backups_total",
			Help: "Total number of portfolio backups by outcome.",
		},
		[]string{"status"},
	)
	if err := reg.Register(runs); err != nil {
		return nil, err
	}
	return &backupService{
		articles: articles,
		store:    store,
		cfg:      cfg,
		log:      log,
		runs:     runs,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *backupService) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	items, err := s.articles.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return &model.Snapshot{GeneratedAt: s.now(), Articles: items}, nil
}

func (s *backupService) Backup(ctx context.Context) (*model.BackupResult, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	res, err := s.backup(ctx)
	if err != nil {
		s.runs.WithLabelValues("error").Inc()
		return nil, err
	}
	s.runs.WithLabelValues("success").Inc()
	return res, nil
}

func (s *backupService) backup(ctx context.Context) (*model.BackupResult, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}

	key := BackupPrefix + "portfolio-" + snap.GeneratedAt.Format(backupKeyLayout) + ".json.gz"
	size := int64(buf.Len())
	info, err := s.store.Put(ctx, key, &buf, storage.PutOptions{
		Size:               size,
		ContentType:        "application/gzip",
		ContentDisposition: `attachment; filename="` + path.Base(key) + `"`,
		Metadata:           map[string]string{"articles": fmt.Sprint(len(snap.Articles))},
	})
	if err != nil {
		return nil, fmt.Errorf("upload backup: %w", err)
	}
	s.log.Info("backup uploaded", zap.String("key", info.Key), zap.Int64("size", size), zap.Int("articles", len(snap.Articles)))

	s.rotate(ctx)

	url, err := s.store.PresignGet(ctx, info.Key, s.cfg.URLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign backup: %w", err)
	}
	return &model.BackupResult{Key: info.Key, Size: size, URL: url, CreatedAt: snap.GeneratedAt}, nil
}

// rotate keeps the newest cfg.Keep backups. Keys embed a sortable UTC
// timestamp. Failures are logged and never fail the backup itself.
func (s *backupService) rotate(ctx context.Context) {
	if s.cfg.Keep <= 0 {
		return
	}
	objs, err := s.store.List(ctx, BackupPrefix)
	if err != nil {
		s.log.Warn("list backups failed", zap.Error(err))
		return
	}
	if len(objs) <= s.cfg.Keep {
		return
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Key > objs[j].Key })
	for _, obj := range objs[s.cfg.Keep:] {
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			s.log.Warn("delete old backup failed", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		s.log.Info("old backup deleted", zap.String("key", obj.Key))
	}
}
