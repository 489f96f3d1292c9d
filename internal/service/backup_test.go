package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"scholarport/internal/config"
	"scholarport/internal/model"
	"scholarport/internal/search"
	"scholarport/internal/storage"
	storeMocks "scholarport/internal/storage/mocks"
)

var backupClock = time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC)

func newBackupFixture(t *testing.T, store storage.Storage, keep int) (*backupService, articleMocks, *observer.ObservedLogs) {
	t.Helper()
	m := newArticleMocks()
	core, logs := observer.New(zap.InfoLevel)

	svc, err := NewBackupService(m.service(), store, config.BackupConfig{Keep: keep, URLTTL: time.Minute}, prometheus.NewRegistry(), zap.New(core))
	require.NoError(t, err)

	bs := svc.(*backupService)
	bs.now = func() time.Time { return backupClock }
	return bs, m, logs
}

func TestBackupService_Snapshot(t *testing.T) {
	ctx := context.Background()
	bs, m, _ := newBackupFixture(t, nil, 3)

	m.articles.On("List", ctx, search.Criteria{}).Return([]model.Article{{ID: articleID}}, nil)
	m.citations.On("ListByArticles", ctx, []string{articleID}).Return(map[string][]model.Citation{}, nil)

	snap, err := bs.Snapshot(ctx)

	require.NoError(t, err)
	assert.Equal(t, backupClock, snap.GeneratedAt)
	require.Len(t, snap.Articles, 1)
	assert.NotNil(t, snap.Articles[0].Citations)
	m.assert(t)
}

func TestBackupService_Backup(t *testing.T) {
	ctx := context.Background()
	wantKey := "backups/portfolio-20240506T070809Z.json.gz"

	t.Run("storage disabled", func(t *testing.T) {
		bs, _, _ := newBackupFixture(t, nil, 3)

		res, err := bs.Backup(ctx)

		assert.ErrorIs(t, err, ErrStorageDisabled)
		assert.Nil(t, res)
	})

	t.Run("uploads gzip snapshot and rotates", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		bs, m, logs := newBackupFixture(t, mStore, 2)

		m.articles.On("List", ctx, search.Criteria{}).Return([]model.Article{}, nil)

		var uploaded []byte
		mStore.On("Put", ctx, wantKey, mock.Anything, mock.MatchedBy(func(o storage.PutOptions) bool {
			return o.ContentType == "application/gzip" && o.Size > 0
		})).Return(func(_ context.Context, key string, r io.Reader, o storage.PutOptions) storage.Object {
			uploaded, _ = io.ReadAll(r)
			return storage.Object{Key: key, Size: o.Size}
		}, nil)
		mStore.On("List", ctx, BackupPrefix).Return([]storage.Object{
			{Key: "backups/portfolio-20240101T000000Z.json.gz"},
			{Key: wantKey},
			{Key: "backups/portfolio-20240301T000000Z.json.gz"},
			{Key: "backups/portfolio-20240201T000000Z.json.gz"},
		}, nil)
		mStore.On("Delete", ctx, "backups/portfolio-20240201T000000Z.json.gz").Return(nil)
		mStore.On("Delete", ctx, "backups/portfolio-20240101T000000Z.json.gz").Return(errors.New("denied"))
		mStore.On("PresignGet", ctx, wantKey, time.Minute).Return("https://minio/backup", nil)

		res, err := bs.Backup(ctx)

		require.NoError(t, err)
		assert.Equal(t, wantKey, res.Key)
		assert.Equal(t, "https://minio/backup", res.URL)
		assert.Equal(t, int64(len(uploaded)), res.Size)

		zr, err := gzip.NewReader(bytes.NewReader(uploaded))
		require.NoError(t, err)
		var snap model.Snapshot
		require.NoError(t, json.NewDecoder(zr).Decode(&snap))
		assert.Equal(t, backupClock, snap.GeneratedAt)

		assert.Equal(t, 1.0, testutil.ToFloat64(bs.runs.WithLabelValues("success")))
		assert.Equal(t, 1, logs.FilterMessage("delete old backup failed").Len())
		mStore.AssertExpectations(t)
	})

	t.Run("upload failure is counted", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		bs, m, _ := newBackupFixture(t, mStore, 2)

		m.articles.On("List", ctx, search.Criteria{}).Return([]model.Article{}, nil)
		mStore.On("Put", ctx, wantKey, mock.Anything, mock.Anything).
			Return(storage.Object{}, errors.New("bucket gone"))

		res, err := bs.Backup(ctx)

		assert.ErrorContains(t, err, "upload backup: bucket gone")
		assert.Nil(t, res)
		assert.Equal(t, 1.0, testutil.ToFloat64(bs.runs.WithLabelValues("error")))
		mStore.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("snapshot failure", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		bs, m, _ := newBackupFixture(t, mStore, 2)

		m.articles.On("List", ctx, search.Criteria{}).Return(nil, errors.New("db fail"))

		_, err := bs.Backup(ctx)

		assert.ErrorContains(t, err, "snapshot: list articles: db fail")
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNewBackupService_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewBackupService(nil, nil, config.BackupConfig{}, reg, zap.NewNop())
	require.NoError(t, err)

	_, err = NewBackupService(nil, nil, config.BackupConfig{}, reg, zap.NewNop())
	assert.Error(t, err)
}
