package pipeline

import (
	"github.com/souffle-app/souffle-content/pkg/logger"
)

// WarningKind classifies a non-fatal finding.
type WarningKind string

const (
	WarnNoLessons    WarningKind = "no-lessons"
	WarnNoScenes     WarningKind = "no-scenes"
	WarnMissingAsset WarningKind = "missing-asset"
	WarnLint         WarningKind = "lint"
	WarnReference    WarningKind = "reference"
)

// Warning is a non-fatal finding. Path is a content path, or a web path for assets.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Path    string      `json:"path"`
	Message string      `json:"message"`
}

// Stats summarises a build.
type Stats struct {
	Worlds  int `json:"worlds"`
	Lessons int `json:"lessons"`
	Scenes  int `json:"scenes"`
	// Assets counts distinct referenced asset paths; Hashed + Missing == Assets.
	Assets       int `json:"assets"`
	Hashed       int `json:"hashed"`
	Missing      int `json:"missing"`
	LintFindings int `json:"lintFindings"`
	RefProblems  int `json:"refProblems"`
	Warnings     int `json:"warnings"`
}

func (b *builder) warn(kind WarningKind, path, msg string) {
	b.result.Warnings = append(b.result.Warnings, Warning{Kind: kind, Path: path, Message: msg})
	logger.Warn(msg, logger.String("kind", string(kind)), logger.String("path", path))
}
