package controller

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"

	"motion-resampler/models"
	"motion-resampler/utils"
)

// Group is the set of input files sharing one label.
type Group struct {
	Label   models.Label
	Pattern string
	Files   []string // full paths, sorted by file name
}

// DiscoverFiles lists, for every group, the regular files directly inside
// dir whose name matches the group's glob. Symlinks count when they
// resolve to a regular file. Names are compared in NFC so
// "ø" matches whether the filesystem stores it composed or not. A group
// without matches is empty, not an error.
func DiscoverFiles(dir string, groups []utils.GroupConfig) ([]Group, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &models.FileSystemError{Op: "readdir", Path: dir, Err: err}
	}

	var files []os.DirEntry
	for _, e := range entries {
		if isRegularFile(dir, e) {
			files = append(files, e)
		}
	}

	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		pattern := norm.NFC.String(g.Pattern)
		grp := Group{Label: models.Label(g.Label), Pattern: g.Pattern}
		for _, e := range files {
			ok, err := filepath.Match(pattern, norm.NFC.String(e.Name()))
			if err != nil {
				return nil, fmt.Errorf("group %s: pattern %q: %w", g.Label, g.Pattern, err)
			}
			if ok {
				grp.Files = append(grp.Files, filepath.Join(dir, e.Name()))
			}
		}
		sort.Strings(grp.Files)
		out = append(out, grp)
	}
	return out, nil
}

// isRegularFile reports whether e is a regular file, following symlinks.
func isRegularFile(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}
