// Package scanner discovers content files without interpreting them.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/souffle-app/souffle-content/pkg/ignore"
	"github.com/souffle-app/souffle-content/pkg/safeio"
)

// ErrNoScenes is returned by FindSceneFiles when a lesson has no scenes directory.
var ErrNoScenes = errors.New("no scenes directory")

// Layout names the fixed directories of a content tree and the file patterns inside them.
type Layout struct {
	WorldsDir    string // "worlds"
	LessonsDir   string // "lessons"
	ScenesDir    string // "scenes", inside each lesson directory
	LessonFile   string // "lesson.json"
	WorldPattern string // doublestar pattern relative to WorldsDir
	ScenePattern string // doublestar pattern relative to a lesson's ScenesDir
}

// DefaultLayout is content/worlds/**/*.json, content/lessons/<dir>/lesson.json and
// content/lessons/<dir>/scenes/**/*.json.
func DefaultLayout() Layout {
	return Layout{
		WorldsDir:    "worlds",
		LessonsDir:   "lessons",
		ScenesDir:    "scenes",
		LessonFile:   "lesson.json",
		WorldPattern: "**/*.json",
		ScenePattern: "**/*.json",
	}
}

// Scanner walks a content tree. Every path it returns is slash-separated and relative to
// the filesystem root, and every list is sorted so discovery order is reproducible.
type Scanner struct {
	fs      billy.Filesystem
	layout  Layout
	matcher *ignore.Matcher
}

// New creates a scanner. matcher may be nil.
func New(fs billy.Filesystem, layout Layout, matcher *ignore.Matcher) *Scanner {
	return &Scanner{fs: fs, layout: layout, matcher: matcher}
}

// Layout returns the layout the scanner was built with.
func (s *Scanner) Layout() Layout {
	return s.layout
}

// FindWorldFiles lists world metadata files. A missing worlds directory yields no files.
func (s *Scanner) FindWorldFiles() ([]string, error) {
	if !safeio.IsDir(s.fs, s.layout.WorldsDir) {
		return nil, nil
	}
	return s.collect(s.layout.WorldsDir, s.layout.WorldPattern)
}

// FindLessonDirectories lists the immediate subdirectories of the lessons directory.
// A missing lessons directory yields none.
func (s *Scanner) FindLessonDirectories() ([]string, error) {
	if !safeio.IsDir(s.fs, s.layout.LessonsDir) {
		return nil, nil
	}
	entries, err := s.fs.ReadDir(s.layout.LessonsDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.layout.LessonsDir, err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := path.Join(s.layout.LessonsDir, e.Name())
		if s.matcher.IsIgnored(dir, true) {
			continue
		}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// LessonFile returns the path of the metadata file expected inside lessonDir.
func (s *Scanner) LessonFile(lessonDir string) string {
	return path.Join(lessonDir, s.layout.LessonFile)
}

// FindSceneFiles lists scene files under lessonDir's scenes directory, or ErrNoScenes.
func (s *Scanner) FindSceneFiles(lessonDir string) ([]string, error) {
	scenesDir := path.Join(lessonDir, s.layout.ScenesDir)
	if !safeio.IsDir(s.fs, scenesDir) {
		return nil, fmt.Errorf("%s: %w", scenesDir, ErrNoScenes)
	}
	return s.collect(scenesDir, s.layout.ScenePattern)
}

// collect walks root and returns regular files whose root-relative path matches pattern.
func (s *Scanner) collect(root, pattern string) ([]string, error) {
	var files []string
	err := util.Walk(s.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		p = filepath.ToSlash(p)
		if s.matcher.IsIgnored(p, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if matched {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
