// Package localcache keeps the sessions saved on this machine in a JSON file:
// the latest save, a de-duplicated history and the sheep types ever entered.
package localcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/shedtally/internal/model"
)

type fileData struct {
	Last       *model.Session  `json:"lastSession,omitempty"`
	History    []model.Session `json:"history"`
	SheepTypes []string        `json:"sheepTypes"`
}

// Cache is the local session cache. It is safe for concurrent use.
type Cache struct {
	path string
	data fileData
	mu   sync.Mutex
}

// Open loads the cache at path. A missing or unreadable file yields an empty
// cache; the file is only written by Record.
func Open(path string) *Cache {
	c := &Cache{path: path}

	raw, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to read local cache, starting empty", "path", path, "error", err)
		}
		return c
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Warn("local cache is corrupt, starting empty", "path", path, "error", err)
		return c
	}
	c.data = data
	return c
}

// Record stores sess as the latest save, replaces any history entry with the
// same date and station, and adds its sheep types to the vocabulary.
func (c *Cache) Record(sess model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	last := sess
	c.data.Last = &last

	key := sess.Key()
	replaced := false
	for i, h := range c.data.History {
		if h.Key() == key {
			c.data.History[i] = sess
			replaced = true
			break
		}
	}
	if !replaced {
		c.data.History = append(c.data.History, sess)
	}

	for _, row := range sess.ShearerCounts {
		c.addSheepType(row.SheepType)
	}

	return c.write()
}

func (c *Cache) addSheepType(raw string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}
	for _, known := range c.data.SheepTypes {
		if strings.EqualFold(known, text) {
			return
		}
	}
	c.data.SheepTypes = append(c.data.SheepTypes, text)
}

// Last returns the most recently recorded session.
func (c *Cache) Last() (model.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data.Last == nil {
		return model.Session{}, false
	}
	return *c.data.Last, true
}

// History returns the recorded sessions in the order they were first saved.
func (c *Cache) History() []model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Session, len(c.data.History))
	copy(out, c.data.History)
	return out
}

// SheepTypes returns the vocabulary in the order the types were first seen.
func (c *Cache) SheepTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.data.SheepTypes))
	copy(out, c.data.SheepTypes)
	return out
}

// Suggest returns up to limit known sheep types starting with prefix, ignoring
// case, sorted alphabetically. An exact match is not suggested.
func (c *Cache) Suggest(prefix string, limit int) []string {
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" || limit <= 0 {
		return nil
	}

	var out []string
	for _, t := range c.SheepTypes() {
		lower := strings.ToLower(t)
		if strings.HasPrefix(lower, p) && lower != p {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// write replaces the cache file through a temp file in the same directory.
func (c *Cache) write() error {
	data, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode local cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set cache permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("failed to replace cache: %w", err)
	}
	return nil
}
