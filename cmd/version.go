package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/souffle-app/souffle-content/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the souffle-content version",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Include Go version and platform")
	cmd.Flags().String("format", "text", "Output format (text|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	version := buildinfo.Version()

	if format == "json" {
		info := map[string]string{"version": version}
		if extended {
			info["goVersion"] = runtime.Version()
			info["platform"] = runtime.GOOS
			info["arch"] = runtime.GOARCH
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	_, _ = fmt.Fprintf(out, "souffle-content %s\n", version)
	if extended {
		_, _ = fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		_, _ = fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
	return nil
}
