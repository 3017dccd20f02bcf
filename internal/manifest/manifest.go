// Package manifest defines content-manifest.json, the artifact the build writes and the
// app reads to decide what to pre-cache.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/souffle-app/souffle-content/internal/content"
	"github.com/souffle-app/souffle-content/pkg/safeio"
)

// VersionLayout matches JavaScript's Date.prototype.toISOString, which the app parses.
const VersionLayout = "2006-01-02T15:04:05.000Z"

// DefaultName is the file written under the public root.
const DefaultName = "content-manifest.json"

// ErrWrite wraps failures to persist the manifest on disk.
var ErrWrite = errors.New("write manifest")

// Manifest is the whole build artifact. Field order is the serialised order.
type Manifest struct {
	Version string            `json:"version"`
	Worlds  []content.World   `json:"worlds"`
	Lessons []content.Lesson  `json:"lessons"`
	Scenes  []SceneEntry      `json:"scenes"`
	Assets  map[string]string `json:"assets"`
}

// SceneEntry is the flattened projection of a validated scene.
type SceneEntry struct {
	ID       string            `json:"id"`
	Type     content.SceneType `json:"type"`
	LessonID string            `json:"lessonId"`
	Order    int               `json:"order"`
	Hash     string            `json:"hash"`
	Assets   []string          `json:"assets"`
}

// Version formats t the way the manifest stores it (UTC, millisecond precision).
func Version(t time.Time) string {
	return t.UTC().Format(VersionLayout)
}

// Assemble builds a sorted manifest. Inputs are expected in discovery order; the sort is
// stable, so equal orders keep that order.
func Assemble(now time.Time, worlds []content.World, lessons []content.Lesson, scenes []SceneEntry, assets map[string]string) *Manifest {
	m := &Manifest{
		Version: Version(now),
		Worlds:  worlds,
		Lessons: lessons,
		Scenes:  scenes,
		Assets:  assets,
	}
	m.Sort()
	return m
}

// Sort orders worlds, lessons and scenes by their order field.
func (m *Manifest) Sort() {
	sort.SliceStable(m.Worlds, func(i, j int) bool { return m.Worlds[i].Order < m.Worlds[j].Order })
	sort.SliceStable(m.Lessons, func(i, j int) bool { return m.Lessons[i].Order < m.Lessons[j].Order })
	sort.SliceStable(m.Scenes, func(i, j int) bool { return m.Scenes[i].Order < m.Scenes[j].Order })
}

// normalize replaces nil collections so they encode as [] and {} rather than null.
func (m *Manifest) normalize() {
	if m.Worlds == nil {
		m.Worlds = []content.World{}
	}
	if m.Lessons == nil {
		m.Lessons = []content.Lesson{}
	}
	if m.Scenes == nil {
		m.Scenes = []SceneEntry{}
	}
	for i := range m.Scenes {
		if m.Scenes[i].Assets == nil {
			m.Scenes[i].Assets = []string{}
		}
	}
	if m.Assets == nil {
		m.Assets = map[string]string{}
	}
}

// Encode renders m as two-space indented JSON with a trailing newline. Asset keys are
// emitted in sorted order and HTML characters are not escaped.
func Encode(m *Manifest) ([]byte, error) {
	m.normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses manifest JSON.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	m.normalize()
	return &m, nil
}

// Write encodes m and replaces name on fs atomically, creating parent directories.
func Write(fs billy.Filesystem, name string, m *Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := safeio.WriteFileAtomic(fs, name, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Lesson returns the lesson with id, or nil.
func (m *Manifest) Lesson(id string) *content.Lesson {
	for i := range m.Lessons {
		if m.Lessons[i].ID == id {
			return &m.Lessons[i]
		}
	}
	return nil
}
