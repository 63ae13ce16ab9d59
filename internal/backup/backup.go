package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/logger"
)

const (
	// DefaultRetention is how many snapshots are kept after a create.
	DefaultRetention = 14
	// DirName is the snapshot directory, created next to the database file.
	DirName = "backups"

	stampLayout = "20060102-150405"
	fileSuffix  = ".db"
)

var filePrefix = constants.AppName + "-"

// Info describes one snapshot on disk.
type Info struct {
	Path    string
	TakenAt time.Time
	Size    int64
}

// Manager takes and restores snapshots of a SQLite habit database.
type Manager struct {
	dbPath    string
	dir       string
	retention int
	clock     func() time.Time
}

type Option func(*Manager)

// WithClock sets the time source used to name snapshots.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithRetention sets how many snapshots survive rotation. Values below 1 keep one.
func WithRetention(n int) Option {
	return func(m *Manager) {
		if n < 1 {
			n = 1
		}
		m.retention = n
	}
}

func NewManager(dbPath string, opts ...Option) *Manager {
	m := &Manager{
		dbPath:    dbPath,
		dir:       filepath.Join(filepath.Dir(dbPath), DirName),
		retention: DefaultRetention,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) Retention() int {
	return m.retention
}

// Create snapshots the database and prunes the oldest snapshots beyond the
// retention limit. Pruning failures are logged, not returned.
func (m *Manager) Create() (string, error) {
	path, err := m.snapshot()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "dir", m.dir, "error", err)
	}
	return path, nil
}

func (m *Manager) snapshot() (string, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.freeName(m.clock())
	if err != nil {
		return "", err
	}
	if err := vacuumInto(m.dbPath, path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Debug("Created backup", "path", path)
	return path, nil
}

// freeName returns an unused snapshot path for t, adding a counter when two
// snapshots land in the same second.
func (m *Manager) freeName(t time.Time) (string, error) {
	stamp := t.Format(stampLayout)
	path := filepath.Join(m.dir, filePrefix+stamp+fileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, n, fileSuffix))
	}
}

// vacuumInto writes a compacted copy of src to dst, falling back to a plain
// file copy when the driver rejects VACUUM INTO.
func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := ping(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(src, dst)
	}
	return nil
}

func ping(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

// List returns the snapshots in the backup directory, newest first. Files
// that do not follow the snapshot naming are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	list := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		takenAt, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		list = append(list, Info{
			Path:    filepath.Join(m.dir, entry.Name()),
			TakenAt: takenAt,
			Size:    info.Size(),
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].TakenAt.Equal(list[j].TakenAt) {
			return list[i].Path > list[j].Path
		}
		return list[i].TakenAt.After(list[j].TakenAt)
	})
	return list, nil
}

// parseName reads the timestamp out of "habitlens-YYYYMMDD-HHMMSS[-N].db".
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if len(stamp) < len(stampLayout) {
		return time.Time{}, false
	}
	if rest := stamp[len(stampLayout):]; rest != "" && !isCounter(rest) {
		return time.Time{}, false
	}
	t, err := time.Parse(stampLayout, stamp[:len(stampLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isCounter(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (m *Manager) rotate() error {
	list, err := m.List()
	if err != nil {
		return err
	}
	for i := m.retention; i < len(list); i++ {
		if err := os.Remove(list[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", list[i].Path, err)
		}
	}
	return nil
}

// Resolve finds a snapshot by path, or by file name inside the backup directory.
func (m *Manager) Resolve(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}
	if !filepath.IsAbs(name) {
		candidate := filepath.Join(m.dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("backup file not found: %s (also looked in %s)", name, m.dir)
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first and that path is returned, or "" when there
// was no database. The caller must close any open connection beforehand.
func (m *Manager) Restore(path string) (string, error) {
	if err := verify(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dbPath); err == nil {
		// No rotation here, the snapshot being restored could be pruned
		safety, err = m.snapshot()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return safety, fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Restored database from backup", "backup", path, "safety", safety)
	return safety, nil
}

func verify(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup file does not exist: %s", path)
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return ping(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
