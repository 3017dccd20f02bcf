package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/souffle-app/souffle-content/internal/warmup"
	"github.com/souffle-app/souffle-content/pkg/logger"
	"github.com/spf13/cobra"
)

func newPrecacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precache [manifest-or-url]",
		Short: "List, or fetch and verify, the assets pre-cached for core lessons",
		Long: `Precache applies the app's warm-up rule to a manifest: take the core lessons, collect
the assets of their scenes, and report that set. With --base-url every asset is fetched
from the deployed site and checked against the manifest hash when one is known.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPrecache,
	}
	cmd.Flags().String("base-url", "", "Fetch each asset from this site root and verify it")
	cmd.Flags().Int("concurrency", warmup.DefaultConcurrency, "Parallel asset requests")
	cmd.Flags().String("format", "text", "Output format (text|json)")
	return cmd
}

func runPrecache(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("base-url")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (want text or json)", format)
	}

	src, err := manifestSource(cmd, args)
	if err != nil {
		return err
	}
	m, err := openManifest(cmd, src)
	if err != nil {
		return err
	}
	assets := warmup.CoreAssets(m)
	logger.Debug("core assets resolved", logger.Int("assets", len(assets)))
	out := cmd.OutOrStdout()

	if baseURL == "" {
		if format == "json" {
			data, _ := json.MarshalIndent(assets, "", "  ")
			_, _ = fmt.Fprintln(out, string(data))
			return nil
		}
		for _, a := range assets {
			_, _ = fmt.Fprintln(out, a)
		}
		return nil
	}

	report, err := warmup.Warm(cmd.Context(), m, assets, warmup.Options{BaseURL: baseURL, Concurrency: concurrency})
	if err != nil {
		return err
	}
	if format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
	} else {
		rows := make([][]string, 0, len(report.Items))
		for _, it := range report.Items {
			rows = append(rows, []string{it.Path, string(it.Status), strconv.FormatInt(it.Bytes, 10), truncate(it.Error, 60)})
		}
		_, _ = fmt.Fprintln(out, renderTable([]string{"Asset", "Status", "Bytes", "Error"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight}))
		_, _ = fmt.Fprintf(out, "%d verified, %d fetched without hash, %d failed in %s\n",
			report.Verified, report.Fetched, report.Failed, report.Duration.Round(time.Millisecond))
	}
	if !report.OK() {
		return fmt.Errorf("%w: %d of %d assets failed warm-up", errNetwork, report.Failed, len(report.Items))
	}
	return nil
}
