// Package pipeline runs the content build: scan the tree, validate and normalise every
// record, extract and hash assets, and assemble the manifest. A build either produces a
// complete manifest or fails with the first fatal error.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/souffle-app/souffle-content/internal/assetref"
	"github.com/souffle-app/souffle-content/internal/content"
	"github.com/souffle-app/souffle-content/internal/manifest"
	"github.com/souffle-app/souffle-content/internal/scanner"
	"github.com/souffle-app/souffle-content/pkg/ignore"
	"github.com/souffle-app/souffle-content/pkg/logger"
	"github.com/souffle-app/souffle-content/pkg/safeio"
)

// Options configures one build.
type Options struct {
	// Content is rooted at the content root (worlds/, lessons/).
	Content billy.Filesystem
	// Public is rooted at the deploy root that asset web paths resolve against.
	Public billy.Filesystem
	Layout scanner.Layout
	// Ignore may be nil.
	Ignore *ignore.Matcher
	// StrictRefs turns dangling and duplicate id warnings into a build failure.
	StrictRefs bool
	// Now stamps the manifest version; defaults to time.Now.
	Now func() time.Time
}

// Result is a successful build.
type Result struct {
	Manifest *manifest.Manifest
	Stats    Stats
	Warnings []Warning
}

type builder struct {
	opts    Options
	scan    *scanner.Scanner
	hasher  *assetref.Hasher
	result  *Result
	worlds  []content.World
	lessons []content.Lesson
	scenes  []sourced
	entries []manifest.SceneEntry
}

// sourced remembers where a scene came from for reference warnings.
type sourced struct {
	*content.Scene
	path string
}

// Build runs the pipeline. The returned error is a *BuildError for content problems;
// other errors are I/O failures.
func Build(opts Options) (*Result, error) {
	if opts.Content == nil || opts.Public == nil {
		return nil, errors.New("pipeline: content and public filesystems are required")
	}
	if opts.Layout == (scanner.Layout{}) {
		opts.Layout = scanner.DefaultLayout()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	b := &builder{
		opts:   opts,
		scan:   scanner.New(opts.Content, opts.Layout, opts.Ignore),
		hasher: assetref.NewHasher(opts.Public),
		result: &Result{},
	}

	steps := []func() error{b.loadWorlds, b.loadLessons, b.checkReferences}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	assets, err := b.hashAssets()
	if err != nil {
		return nil, err
	}

	b.result.Manifest = manifest.Assemble(opts.Now(), b.worlds, b.lessons, b.entries, assets)
	b.result.Stats.Worlds = len(b.worlds)
	b.result.Stats.Lessons = len(b.lessons)
	b.result.Stats.Scenes = len(b.entries)
	b.result.Stats.Warnings = len(b.result.Warnings)
	return b.result, nil
}

func (b *builder) loadWorlds() error {
	files, err := b.scan.FindWorldFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		rec, _, err := b.readJSON(f)
		if err != nil {
			return err
		}
		w, err := content.ParseWorld(rec)
		if err != nil {
			return violation(f, err)
		}
		logger.Debug("world validated", logger.String("id", w.ID), logger.String("path", f))
		b.worlds = append(b.worlds, *w)
	}
	return nil
}

func (b *builder) loadLessons() error {
	if lessonsDir := b.scan.Layout().LessonsDir; !safeio.IsDir(b.opts.Content, lessonsDir) {
		b.warn(WarnNoLessons, lessonsDir, "content has no lessons directory")
		return nil
	}
	dirs, err := b.scan.FindLessonDirectories()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := b.loadLesson(dir); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) loadLesson(dir string) error {
	lessonFile := b.scan.LessonFile(dir)
	if !safeio.Exists(b.opts.Content, lessonFile) {
		return structural(lessonFile, "lesson metadata file not found")
	}
	rec, _, err := b.readJSON(lessonFile)
	if err != nil {
		return err
	}
	lesson, err := content.ParseLesson(rec)
	if err != nil {
		return violation(lessonFile, err)
	}
	b.lessons = append(b.lessons, *lesson)

	files, err := b.scan.FindSceneFiles(dir)
	if errors.Is(err, scanner.ErrNoScenes) {
		b.warn(WarnNoScenes, dir, "lesson has no scenes directory")
		return nil
	}
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := b.loadScene(f, lesson); err != nil {
			return err
		}
	}
	logger.Debug("lesson validated", logger.String("id", lesson.ID), logger.Int("scenes", len(files)))
	return nil
}

func (b *builder) loadScene(path string, lesson *content.Lesson) error {
	rec, raw, err := b.readJSON(path)
	if err != nil {
		return err
	}
	// The hash covers the file as written, before lessonId is filled in.
	hash := assetref.HashBytes(raw)
	if content.InjectLessonID(rec, lesson.ID) {
		logger.Trace("lessonId defaulted", logger.String("path", path), logger.String("lesson", lesson.ID))
	}
	scene, err := content.ParseScene(rec)
	if err != nil {
		return violation(path, err)
	}
	for _, finding := range scene.Lint() {
		b.result.Stats.LintFindings++
		b.warn(WarnLint, path, finding)
	}

	b.scenes = append(b.scenes, sourced{Scene: scene, path: path})
	b.entries = append(b.entries, manifest.SceneEntry{
		ID:       scene.ID,
		Type:     scene.Type,
		LessonID: scene.LessonID,
		Order:    scene.Order,
		Hash:     hash,
		Assets:   assetref.Referenced(scene),
	})
	return nil
}

// readJSON reads and decodes a source file, returning the decoded value and raw bytes.
func (b *builder) readJSON(path string) (any, []byte, error) {
	raw, err := safeio.ReadFile(b.opts.Content, path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rec any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, nil, syntax(path, raw, err)
	}
	return rec, raw, nil
}

// hashAssets hashes every distinct referenced asset once, in first-reference order.
func (b *builder) hashAssets() (map[string]string, error) {
	assets := make(map[string]string)
	seen := make(map[string]bool)
	for _, e := range b.entries {
		for _, p := range e.Assets {
			if seen[p] {
				continue
			}
			seen[p] = true
			b.result.Stats.Assets++

			h, err := b.hasher.HashAsset(p)
			switch {
			case err == nil:
				assets[p] = h
				b.result.Stats.Hashed++
			case errors.Is(err, assetref.ErrOutsideRoot):
				b.result.Stats.Missing++
				b.warn(WarnMissingAsset, p, assetref.ErrOutsideRoot.Error())
			case errors.Is(err, assetref.ErrNotFound):
				b.result.Stats.Missing++
				b.warn(WarnMissingAsset, p, assetref.ErrNotFound.Error())
			default:
				return nil, err
			}
		}
	}
	return assets, nil
}
