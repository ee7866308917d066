package recipient

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultArtifactExt is the extension the document generator writes.
const DefaultArtifactExt = "pdf"

// ErrArtifactNotFound is wrapped by Locate when the expected file is absent.
var ErrArtifactNotFound = errors.New("artifact not found")

// forbiddenRun matches runs of characters that are illegal in file names on
// at least one supported platform. The document generator uses the same rule;
// any drift between the two turns into silent lookup misses.
var forbiddenRun = regexp.MustCompile(`[<>:"/\\|?*]+`)

// Sanitize maps a recipient name to the file stem the generator produced.
// Each run of forbidden characters becomes a single '_', then surrounding
// whitespace is trimmed. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(name string) string {
	return strings.TrimSpace(forbiddenRun.ReplaceAllString(name, "_"))
}

// Locator resolves recipient names to artifact paths inside one client folder.
type Locator struct {
	Folder string
	Ext    string
}

// Path returns the expected artifact path for name without checking the disk.
func (l Locator) Path(name string) string {
	ext := strings.TrimPrefix(l.Ext, ".")
	if ext == "" {
		ext = DefaultArtifactExt
	}
	return filepath.Join(l.Folder, Sanitize(name)+"."+ext)
}

// Locate returns the artifact path for name if a regular file exists there.
// The returned error wraps ErrArtifactNotFound and names the attempted path.
func (l Locator) Locate(name string) (string, error) {
	path := l.Path(name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &NotFoundError{Path: path}
		}
		return "", fmt.Errorf("stat artifact %s: %w", path, err)
	}
	if info.IsDir() {
		return "", &NotFoundError{Path: path}
	}
	return path, nil
}

// NotFoundError reports the path that was expected but missing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "PDF not found: " + e.Path
}

func (e *NotFoundError) Unwrap() error { return ErrArtifactNotFound }
