package render

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var backgroundExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".mkv":  {},
	".webm": {},
}

// pickBackground returns the first background clip (sorted by name) in dir,
// or "" when the folder is missing or holds no usable clips. An empty result
// means the renderer falls back to a solid color source.
func pickBackground(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := backgroundExtensions[ext]; ok {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0])
}
