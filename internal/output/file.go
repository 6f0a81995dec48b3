package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// DatedFilename builds "<search_term_slug>_<YYYY_MM_DD>.<ext>".
func DatedFilename(searchTerm string, now time.Time, ext string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(searchTerm), "_"), "_")
	if slug == "" {
		slug = "leads"
	}
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s_%s.%s", slug, now.Format("2006_01_02"), ext)
}

// Extension returns the file extension used for a format name.
func Extension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text":
		return "txt"
	default:
		return format
	}
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
