package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"scholarport/internal/model"
)

type stubBackups struct {
	res *model.BackupResult
	err error
}

func (s stubBackups) Snapshot(context.Context) (*model.Snapshot, error) { return nil, nil }
func (s stubBackups) Backup(context.Context) (*model.BackupResult, error) { return s.res, s.err }

func TestScheduleBackups(t *testing.T) {
	t.Run("invalid spec", func(t *testing.T) {
		c, err := ScheduleBackups("every tuesday", stubBackups{}, zap.NewNop())

		assert.ErrorContains(t, err, `invalid backup schedule "every tuesday"`)
		assert.Nil(t, c)
	})

	t.Run("registers one job", func(t *testing.T) {
		c, err := ScheduleBackups("0 3 * * *", stubBackups{}, zap.NewNop())

		require.NoError(t, err)
		assert.Len(t, c.Entries(), 1)
	})

	t.Run("job logs the outcome", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)

		c, err := ScheduleBackups("@daily", stubBackups{res: &model.BackupResult{Key: "backups/a"}}, zap.New(core))
		require.NoError(t, err)
		c.Entries()[0].Job.Run()
		assert.Equal(t, 1, logs.FilterMessage("scheduled backup completed").Len())

		c, err = ScheduleBackups("@daily", stubBackups{err: errors.New("minio down")}, zap.New(core))
		require.NoError(t, err)
		c.Entries()[0].Job.Run()
		assert.Equal(t, 1, logs.FilterMessage("scheduled backup failed").Len())
	})
}
