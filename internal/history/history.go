package history

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Manager records completed translations and caches their output keyed by
// source content, so retranslating an unchanged file is a lookup.
type Manager struct {
	db *gorm.DB
}

// Entry is one recorded translation run.
type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	InputPath   string `gorm:"index"`
	OutputPath  string
	SourceHash  string `gorm:"index"`
	OutputBytes int
	SessionID   string `gorm:"index"`
	Failure     string
}

// CacheEntry stores generated Python keyed by the hash of the Elan source
// and the options that produced it.
type CacheEntry struct {
	Key       string    `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Target string
}

func NewManager(dbFilePath string) (*Manager, error) {
	// NFS-optimized connection string with PRAGMA settings
	// - foreign_keys(1): Enable foreign key constraints (disabled by default)
	// - busy_timeout(5000): 5 second timeout for NFS network latency
	// - synchronous(1): NORMAL mode for durability/performance balance
	// - temp_store(2): MEMORY - keeps temp files out of NFS
	connectionString := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(1)&_pragma=temp_store(2)", dbFilePath)

	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database")
		return nil, err
	}

	if err := db.AutoMigrate(&Entry{}, &CacheEntry{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite serializes writes anyway, so multiple connections add overhead
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{
		db: db,
	}, nil
}

// Close closes the database connection. This should be called when the
// Manager is no longer needed, especially in tests to allow cleanup of
// temporary database files on Windows.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordTranslation persists one translation run. failure is empty on
// success.
func (m *Manager) RecordTranslation(inputPath, outputPath, source string, outputBytes int, sessionID string, failure string) (*Entry, error) {
	entry := Entry{
		InputPath:   inputPath,
		OutputPath:  outputPath,
		SourceHash:  SourceKey(source, ""),
		OutputBytes: outputBytes,
		SessionID:   sessionID,
		Failure:     failure,
	}

	result := m.db.Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

// GetRecentEntries returns the most recent translation runs, newest first.
func (m *Manager) GetRecentEntries(limit int) ([]Entry, error) {
	var entries []Entry
	result := m.db.Order("created_at desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// ResetHistory deletes all recorded translations.
func (m *Manager) ResetHistory() error {
	result := m.db.Exec("DELETE FROM entries")
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// LookupCache returns the cached target text for key, if present.
func (m *Manager) LookupCache(key string) (string, bool, error) {
	var entry CacheEntry
	result := m.db.First(&entry, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if result.Error != nil {
		return "", false, result.Error
	}
	return entry.Target, true, nil
}

// StoreCache saves target text under key, replacing any previous value.
func (m *Manager) StoreCache(key, target string) error {
	entry := CacheEntry{Key: key, Target: target}
	result := m.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry)
	return result.Error
}

// SourceKey derives the cache key for a source text under a given options
// fingerprint. Different options must never share a cache slot.
func SourceKey(source, optionsFingerprint string) string {
	sum := sha256.Sum256([]byte(optionsFingerprint + "\x00" + source))
	return hex.EncodeToString(sum[:])
}
