package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// TokenFile is a small key/value store persisted as YAML. It holds the
// module's session storage variables (the Qobuz user token) between runs.
// An empty path keeps values in memory only.
type TokenFile struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenTokenFile loads the store at path. A missing file yields an empty store.
func OpenTokenFile(path string) (*TokenFile, error) {
	t := &TokenFile{path: path, values: make(map[string]string)}
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("failed to read session file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &t.values); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	if t.values == nil {
		t.values = make(map[string]string)
	}
	return t, nil
}

// Read returns the stored value for key, or "".
func (t *TokenFile) Read(key string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.values[key]
}

// Set stores value under key and writes the file.
func (t *TokenFile) Set(key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.values[key] = value
	if t.path == "" {
		return nil
	}

	data, err := yaml.Marshal(t.values)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
