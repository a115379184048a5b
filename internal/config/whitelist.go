package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// LoadWhitelistFile reads one CIDR per line. Blank lines and anything after
// a '#' are ignored.
func LoadWhitelistFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open whitelist %s: %w", path, err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read whitelist %s: %w", path, err)
	}
	return entries, nil
}

// ManualWhitelist merges every manual whitelist source: the inline list, the
// config's whitelist files, then extraFiles and extra from the command line.
// Duplicates are dropped, first occurrence wins.
func (c *Config) ManualWhitelist(extraFiles, extra []string) ([]string, error) {
	var entries []string
	var files []string
	if c != nil {
		entries = append(entries, c.Whitelist...)
		for _, f := range c.WhitelistFiles {
			if !filepath.IsAbs(f) && c.dir != "" {
				f = filepath.Join(c.dir, f)
			}
			files = append(files, f)
		}
	}
	files = append(files, extraFiles...)

	for _, path := range files {
		fromFile, err := LoadWhitelistFile(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fromFile...)
	}
	entries = append(entries, extra...)

	return lo.Uniq(lo.Map(entries, func(s string, _ int) string { return strings.TrimSpace(s) })), nil
}
