package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ParseSelection splits user input on whitespace and commas.
func ParseSelection(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// Expand resolves a selection into file paths. Globs and directories expand
// only to .json and .csv files; paths named explicitly are kept as typed.
func Expand(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", p, err)
			}
			slices.Sort(matches)
			for _, m := range matches {
				if accepted(m) {
					out = append(out, m)
				}
			}
			continue
		}
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %q: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			full := filepath.Join(p, e.Name())
			if accepted(full) {
				out = append(out, full)
			}
		}
	}
	return out, nil
}

func accepted(path string) bool {
	k := Classify(path)
	if k != KindJSON && k != KindCSV {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
