// Package analytics records command usage events.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CommandEvent is one recorded usage event.
type CommandEvent struct {
	ID         string `gorm:"primaryKey"`
	Identity   int64  `gorm:"index"`
	Name       string
	Command    string `gorm:"index"`
	Properties string
	CreatedAt  time.Time
}

// CommandCount is the number of times a command was used.
type CommandCount struct {
	Command string
	Count   int64
}

// Store persists usage events in sqlite.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (and migrates) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}
	if err := db.AutoMigrate(&CommandEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate analytics database: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Track records event for identity. The "command" property, when present,
// is stored in its own column for aggregation.
func (s *Store) Track(ctx context.Context, identity int64, event string, props map[string]any) error {
	encoded, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("failed to encode properties: %w", err)
	}
	command, _ := props["command"].(string)

	row := CommandEvent{
		ID:         uuid.NewString(),
		Identity:   identity,
		Name:       event,
		Command:    command,
		Properties: string(encoded),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record event %q: %w", event, err)
	}
	return nil
}

// Counts returns usage per command, most used first.
func (s *Store) Counts(ctx context.Context) ([]CommandCount, error) {
	var counts []CommandCount
	err := s.db.WithContext(ctx).
		Model(&CommandEvent{}).
		Select("command, count(*) as count").
		Where("command <> ''").
		Group("command").
		Order("count desc, command").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count commands: %w", err)
	}
	return counts, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Nop discards every event.
type Nop struct{}

// Track implements listener.Tracker.
func (Nop) Track(context.Context, int64, string, map[string]any) error { return nil }
