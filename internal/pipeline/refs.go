package pipeline

import (
	"fmt"
	"strings"
)

// checkReferences reports duplicate ids, lessons pointing at unknown worlds and scenes
// pointing at unknown lessons. Findings are warnings unless StrictRefs is set.
func (b *builder) checkReferences() error {
	var problems []Warning
	add := func(path, format string, args ...any) {
		problems = append(problems, Warning{Kind: WarnReference, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	worlds := make(map[string]bool, len(b.worlds))
	for _, w := range b.worlds {
		if worlds[w.ID] {
			add(b.opts.Layout.WorldsDir, "duplicate world id %q", w.ID)
		}
		worlds[w.ID] = true
	}

	lessons := make(map[string]bool, len(b.lessons))
	for _, l := range b.lessons {
		if lessons[l.ID] {
			add(b.opts.Layout.LessonsDir, "duplicate lesson id %q", l.ID)
		}
		lessons[l.ID] = true
		if !worlds[l.WorldID] {
			add(b.opts.Layout.LessonsDir, "lesson %q references unknown world %q", l.ID, l.WorldID)
		}
	}

	scenes := make(map[string]bool, len(b.scenes))
	for _, s := range b.scenes {
		if scenes[s.ID] {
			add(s.path, "duplicate scene id %q", s.ID)
		}
		scenes[s.ID] = true
		if !lessons[s.LessonID] {
			add(s.path, "scene %q references unknown lesson %q", s.ID, s.LessonID)
		}
	}

	b.result.Stats.RefProblems = len(problems)
	if len(problems) == 0 {
		return nil
	}
	if b.opts.StrictRefs {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Message
		}
		return &BuildError{
			Kind:    SchemaViolation,
			Message: "broken references: " + strings.Join(msgs, "; "),
		}
	}
	for _, p := range problems {
		b.warn(p.Kind, p.Path, p.Message)
	}
	return nil
}
