// generator.go renders a commented TOML file for boxfetch init.

package config

import (
	"bytes"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// fieldComments are written above the matching top-level keys.
var fieldComments = map[string]string{
	"source_url":            "Subscription URL, e.g. a Sub Store download link for sing-box",
	"filename":              "Written as <directory>/<filename>",
	"directory":             "Where the box module reads its configuration",
	"interval_minutes":      "Minutes between syncs when periodic sync is enabled",
	"elevation":             "su (rooted Android), sudo, direct (no elevation) or none (skip writes)",
	"run_on_start":          "Sync immediately when periodic sync starts",
	"fetch_timeout_seconds": "0 keeps the platform default (no limit)",
	"log_level":             "debug, info, warn or error",
}

// GenerateConfig returns the TOML content for cfg, with comments.
func GenerateConfig(cfg Config) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return SchemaComment + insertFieldComments(buf.String()), nil
}

// insertFieldComments inserts a comment line before each known key.
func insertFieldComments(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines)*2)

	for _, line := range lines {
		key, _, found := strings.Cut(line, "=")
		if found {
			if comment, ok := fieldComments[strings.TrimSpace(key)]; ok {
				result = append(result, "# "+comment)
			}
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}
