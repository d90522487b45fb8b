package tempfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Handler creates and deletes scratch files on local storage. It is the only
// component that touches the filesystem directly for transient data.
type Handler struct {
	dir    string
	logger *slog.Logger
}

func NewHandler(dir string, logger *slog.Logger) *Handler {
	if dir == "" {
		dir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{dir: dir, logger: logger}
}

// CreateTempFile writes data to a uniquely named scratch file and returns its
// path. The original name contributes only its extension; uniqueness comes
// from a fresh UUID so concurrent invocations never collide.
func (h *Handler) CreateTempFile(data []byte, originalName string) (string, error) {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	name := uuid.New().String() + sanitizeExt(originalName)
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	h.logger.Debug("tempfile.created", "path", path, "bytes", len(data))
	return path, nil
}

// DeleteTempFiles removes each path, logging but not raising on individual
// failures so cleanup can never mask the primary result.
func (h *Handler) DeleteTempFiles(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil {
			h.logger.Warn("tempfile.delete_failed", "path", p, "error", err)
			continue
		}
		h.logger.Debug("tempfile.deleted", "path", p)
	}
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, r := range ext {
		if r != '.' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
