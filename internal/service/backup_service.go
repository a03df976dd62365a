package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"kindergarten/internal/models"
)

const backupVersion = "1.0"

// BackupData represents the complete export of the kindergarten records
type BackupData struct {
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Positions  []models.Position  `json:"positions"`
	GroupTypes []models.GroupType `json:"group_types"`
	Staff      []models.Staff     `json:"staff"`
	Parents    []models.Parent    `json:"parents"`
	Groups     []models.Group     `json:"groups"`
	Children   []models.Child     `json:"children"`
}

type allLister[T any] interface {
	All(ctx context.Context) ([]T, error)
}

// BackupSources are the repositories read by an export
type BackupSources struct {
	Positions  allLister[models.Position]
	GroupTypes allLister[models.GroupType]
	Staff      allLister[models.Staff]
	Parents    allLister[models.Parent]
	Groups     allLister[models.Group]
	Children   allLister[models.Child]
}

// BackupService handles database export
type BackupService struct {
	src    BackupSources
	logger *zap.Logger
	now    func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(src BackupSources, logger *zap.Logger) *BackupService {
	return &BackupService{src: src, logger: logger, now: time.Now}
}

// Export writes every record as indented JSON
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	s.logger.Info("starting database export")

	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: s.now().UTC(),
	}

	var err error
	if backup.Positions, err = s.src.Positions.All(ctx); err != nil {
		return nil, fmt.Errorf("failed to export positions: %w", err)
	}
	if backup.GroupTypes, err = s.src.GroupTypes.All(ctx); err != nil {
		return nil, fmt.Errorf("failed to export group types: %w", err)
	}
	if backup.Staff, err = s.src.Staff.All(ctx); err != nil {
		return nil, fmt.Errorf("failed to export staff: %w", err)
	}
	if backup.Parents, err = s.src.Parents.All(ctx); err != nil {
		return nil, fmt.Errorf("failed to export parents: %w", err)
	}
	if backup.Groups, err = s.src.Groups.All(ctx); err != nil {
		return nil, fmt.Errorf("failed to export groups: %w", err)
	}
	if backup.Children, err = s.src.Children.All(ctx); err != nil {
		return nil, fmt.Errorf("failed to export children: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info("database exported",
		zap.Int("positions", len(backup.Positions)),
		zap.Int("group_types", len(backup.GroupTypes)),
		zap.Int("staff", len(backup.Staff)),
		zap.Int("parents", len(backup.Parents)),
		zap.Int("groups", len(backup.Groups)),
		zap.Int("children", len(backup.Children)),
	)
	return backup, nil
}
