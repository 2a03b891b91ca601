package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Manager organizes generated artifacts under a base directory, one
// UUID-named subdirectory per generation job.
type Manager struct {
	BaseDir string
}

// NewManager creates a manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{BaseDir: baseDir}
}

// NewJobID returns a fresh job identifier.
func (m *Manager) NewJobID() string {
	return uuid.NewString()
}

// JobDir creates (if needed) and returns the output directory for a job.
func (m *Manager) JobDir(jobID string) (string, error) {
	dir := filepath.Join(m.BaseDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create job output directory: %w", err)
	}
	return dir, nil
}

// FilePath returns the full path for a named file inside a job's
// directory. The name is cleaned so it cannot escape the directory.
func (m *Manager) FilePath(jobID, name string) (string, error) {
	dir, err := m.JobDir(jobID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}

// FileName builds a timestamped artifact name for a domain and format.
func FileName(domain string, format Format) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("synthetic_%s_%s.%s", domain, timestamp, format.Ext())
}

// DownloadURL returns the HTTP path the server exposes for an artifact.
func (m *Manager) DownloadURL(jobID, name string) string {
	return fmt.Sprintf("/api/v1/download/%s/%s", jobID, filepath.Base(name))
}
