package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/souffle-app/souffle-content/internal/gitctx"
	"github.com/souffle-app/souffle-content/internal/manifest"
	"github.com/souffle-app/souffle-content/internal/pipeline"
	"github.com/souffle-app/souffle-content/internal/scanner"
	"github.com/souffle-app/souffle-content/pkg/config"
	"github.com/souffle-app/souffle-content/pkg/ignore"
	"github.com/souffle-app/souffle-content/pkg/logger"
	"github.com/spf13/cobra"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate content and write the content manifest",
		Long: `Build scans the content tree, validates every world, lesson and scene, hashes scenes
and the assets they reference, and writes the manifest under the public root.

Any structural, syntax or schema problem aborts the build without writing a manifest.
Missing scenes directories and missing asset files are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}
	addContentFlags(cmd)
	return cmd
}

// addContentFlags registers the flags shared by build and validate. Names match the
// configuration flag bindings.
func addContentFlags(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().String("content", def.ContentRoot, "Content root directory (worlds/, lessons/)")
	cmd.Flags().String("public", def.PublicRoot, "Public (deploy) root that asset paths resolve against")
	cmd.Flags().String("output", def.Output, "Manifest path, relative to the public root")
	cmd.Flags().Bool("strict-refs", def.StrictRefs, "Fail on duplicate ids and dangling worldId/lessonId references")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	return config.Load(configFile, cmd.Flags())
}

// buildFromConfig runs the pipeline over the directories named in cfg.
func buildFromConfig(cfg *config.Config) (*pipeline.Result, billy.Filesystem, error) {
	st, err := os.Stat(cfg.ContentRoot)
	if err != nil || !st.IsDir() {
		return nil, nil, &pipeline.BuildError{
			Kind:    pipeline.StructuralError,
			Path:    cfg.ContentRoot,
			Message: "content root directory not found",
		}
	}

	contentFS := osfs.New(cfg.ContentRoot)
	publicFS := osfs.New(cfg.PublicRoot)

	matcher, err := ignore.NewMatcher(contentFS, cfg.IgnoreFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load ignore patterns: %w", err)
	}
	logger.Debug("ignore patterns loaded", logger.Int("patterns", matcher.Patterns()))

	layout := scanner.DefaultLayout()
	layout.LessonFile = cfg.LessonFile
	layout.WorldPattern = cfg.WorldPattern
	layout.ScenePattern = cfg.ScenePattern

	res, err := pipeline.Build(pipeline.Options{
		Content:    contentFS,
		Public:     publicFS,
		Layout:     layout,
		Ignore:     matcher,
		StrictRefs: cfg.StrictRefs,
	})
	if err != nil {
		return nil, nil, err
	}
	return res, publicFS, nil
}

// describeRevision logs and returns the git revision of the content tree, or nil.
func describeRevision(contentRoot string) *gitctx.Revision {
	rev, err := gitctx.Describe(contentRoot)
	if err != nil {
		logger.Debug("git revision unavailable", logger.Err(err))
		return nil
	}
	if rev == nil {
		return nil
	}
	logger.Info("Content revision",
		logger.String("sha", rev.Short()),
		logger.String("branch", rev.Branch),
		logger.Bool("dirty", rev.Dirty()))
	if rev.Dirty() {
		logger.Debug("uncommitted content", logger.Strings("files", rev.Modified))
	}
	return rev
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Info("Building content manifest",
		logger.String("content", cfg.ContentRoot),
		logger.String("public", cfg.PublicRoot))

	describeRevision(cfg.ContentRoot)

	res, publicFS, err := buildFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := manifest.Write(publicFS, cfg.Output, res.Manifest); err != nil {
		return err
	}

	out := filepath.Join(cfg.PublicRoot, filepath.FromSlash(cfg.Output))
	s := res.Stats
	logger.Info("Manifest written",
		logger.String("path", out),
		logger.Int("worlds", s.Worlds),
		logger.Int("lessons", s.Lessons),
		logger.Int("scenes", s.Scenes),
		logger.Int("assets", s.Assets),
		logger.Int("hashed", s.Hashed),
		logger.Int("missing", s.Missing),
		logger.Int("warnings", s.Warnings))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d worlds, %d lessons, %d scenes, %d/%d assets hashed)\n",
		out, s.Worlds, s.Lessons, s.Scenes, s.Hashed, s.Assets)
	return nil
}
