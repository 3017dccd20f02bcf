package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/souffle-app/souffle-content/internal/manifest"
	"github.com/spf13/cobra"
)

const titleWidth = 32

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [manifest]",
		Short: "Print the worlds, lessons and scenes of a manifest",
		Long: `Inspect loads a manifest (a path or an http(s) URL; defaults to the configured output
under the public root) and prints its contents as tables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}
	cmd.Flags().String("section", "all", "Section to print (worlds|lessons|scenes|assets|all)")
	cmd.Flags().String("lesson", "", "Only show this lesson and its scenes")
	return cmd
}

// manifestSource returns args[0], or the configured output path.
func manifestSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.PublicRoot, filepath.FromSlash(cfg.Output)), nil
}

func openManifest(cmd *cobra.Command, src string) (*manifest.Manifest, error) {
	m, err := manifest.Open(cmd.Context(), nil, src)
	if err != nil && manifest.IsURL(src) {
		return nil, fmt.Errorf("%w: %v", errNetwork, err)
	}
	return m, err
}

func runInspect(cmd *cobra.Command, args []string) error {
	section, _ := cmd.Flags().GetString("section")
	lessonFilter, _ := cmd.Flags().GetString("lesson")
	switch section {
	case "all", "worlds", "lessons", "scenes", "assets":
	default:
		return fmt.Errorf("unknown section %q", section)
	}

	src, err := manifestSource(cmd, args)
	if err != nil {
		return err
	}
	m, err := openManifest(cmd, src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s (version %s)\n", src, m.Version)
	if lessonFilter != "" {
		l := m.Lesson(lessonFilter)
		if l == nil {
			return fmt.Errorf("lesson %q is not in the manifest", lessonFilter)
		}
		_, _ = fmt.Fprintf(out, "lesson %s: %s\n", l.ID, truncate(l.Title, titleWidth))
	}
	show := func(name string) bool { return section == "all" || section == name }

	if show("worlds") {
		rows := make([][]string, 0, len(m.Worlds))
		for _, w := range m.Worlds {
			rows = append(rows, []string{strconv.Itoa(w.Order), w.ID, w.Slug, truncate(w.Title, titleWidth), optional(w.Level)})
		}
		_, _ = fmt.Fprintln(out, renderTable([]string{"Order", "ID", "Slug", "Title", "Level"}, rows, []columnAlignment{alignRight}))
	}

	if show("lessons") {
		rows := make([][]string, 0, len(m.Lessons))
		for _, l := range m.Lessons {
			if lessonFilter != "" && l.ID != lessonFilter {
				continue
			}
			core := ""
			if l.IsCore {
				core = "yes"
			}
			rows = append(rows, []string{strconv.Itoa(l.Order), l.ID, l.WorldID, core, strconv.Itoa(l.Difficulty), truncate(l.Title, titleWidth)})
		}
		_, _ = fmt.Fprintln(out, renderTable(
			[]string{"Order", "ID", "World", "Core", "Difficulty", "Title"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}))
	}

	if show("scenes") {
		rows := make([][]string, 0, len(m.Scenes))
		for _, s := range m.Scenes {
			if lessonFilter != "" && s.LessonID != lessonFilter {
				continue
			}
			rows = append(rows, []string{strconv.Itoa(s.Order), s.ID, string(s.Type), s.LessonID, strconv.Itoa(len(s.Assets)), shortHash(s.Hash)})
		}
		_, _ = fmt.Fprintln(out, renderTable(
			[]string{"Order", "ID", "Type", "Lesson", "Assets", "Hash"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}))
	}

	if show("assets") {
		rows := make([][]string, 0, len(m.Assets))
		for _, p := range sortedKeys(m.Assets) {
			rows = append(rows, []string{p, shortHash(m.Assets[p])})
		}
		_, _ = fmt.Fprintln(out, renderTable([]string{"Asset", "Hash"}, rows, nil))
	}

	return nil
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
