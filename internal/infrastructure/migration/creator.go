package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MigrationPair is the up/down SQL file pair golang-migrate expects.
type MigrationPair struct {
	Version  string
	Base     string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down pair named
// <timestamp>_<name>.{up,down}.sql into dir, creating dir if needed.
func CreateMigration(dir, name string) (*MigrationPair, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	base := version + "_" + sanitizeName(name)

	pair := &MigrationPair{
		Version:  version,
		Base:     base,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	upHeader := fmt.Sprintf("-- %s\n-- created %s\n\n", name, now.Format(time.RFC3339))
	if err := os.WriteFile(pair.UpPath, []byte(upHeader), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write up migration: %w", err)
	}

	downHeader := fmt.Sprintf("-- rollback: %s\n\n", name)
	if err := os.WriteFile(pair.DownPath, []byte(downHeader), 0o644); err != nil {
		os.Remove(pair.UpPath)
		return nil, fmt.Errorf("failed to write down migration: %w", err)
	}

	return pair, nil
}

// ListMigrations returns the base names of the migrations in dir,
// derived from the .up.sql files. A missing dir is an empty list.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(e.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	return names, nil
}

// sanitizeName lowercases the name and squashes everything that is not
// alphanumeric into single underscores.
func sanitizeName(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
