package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kindergarten/internal/models"
)

type staticRows[T any] struct {
	rows []T
	err  error
}

func (s staticRows[T]) All(context.Context) ([]T, error) { return s.rows, s.err }

func TestBackupExport(t *testing.T) {
	positionID := int64(1)
	src := BackupSources{
		Positions:  staticRows[models.Position]{rows: []models.Position{{ID: 1, Name: "Teacher"}}},
		GroupTypes: staticRows[models.GroupType]{rows: []models.GroupType{{ID: 1, Name: "Senior"}}},
		Staff:      staticRows[models.Staff]{rows: []models.Staff{{ID: 1, FullName: "Anna", PositionID: &positionID}}},
		Parents:    staticRows[models.Parent]{},
		Groups:     staticRows[models.Group]{},
		Children:   staticRows[models.Child]{},
	}
	svc := NewBackupService(src, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	backup, err := svc.Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Len(t, backup.Staff, 1)

	var decoded BackupData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, backupVersion, decoded.Version)
	assert.Equal(t, "Senior", decoded.GroupTypes[0].Name)
	assert.Equal(t, positionID, *decoded.Staff[0].PositionID)
	assert.True(t, decoded.ExportedAt.Equal(svc.now()))
}

func TestBackupExportStopsOnError(t *testing.T) {
	src := BackupSources{
		Positions: staticRows[models.Position]{err: errors.New("boom")},
	}
	var buf bytes.Buffer
	_, err := NewBackupService(src, zap.NewNop()).Export(context.Background(), &buf)
	assert.ErrorContains(t, err, "positions")
	assert.Zero(t, buf.Len())
}
