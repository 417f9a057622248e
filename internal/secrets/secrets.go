// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets supplies store credentials that stay out of the profiles
// file. A secrets directory holds one plain-text file per secret: the file
// name is the key and the trimmed contents are the value. Profile DSNs refer
// to secrets with ${name}.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// refPattern matches a ${name} secret reference.
var refPattern = regexp.MustCompile(`\$\{([^{}]+)\}`)

// Expand replaces each ${name} in s with the secret of that name, falling
// back to the environment variable of that name. Any other '$' is kept
// as is. A reference that resolves to neither is an error naming every
// missing key.
func Expand(s string, secrets map[string]string) (string, error) {
	var missing []string
	out := refPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[2 : len(ref)-1]
		if v, ok := secrets[name]; ok {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		missing = append(missing, name)
		return ""
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("unresolved secrets %v", missing)
	}
	return out, nil
}
