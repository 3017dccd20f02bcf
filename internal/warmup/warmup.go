// Package warmup is the consumer side of the manifest: it works out which assets the app
// pre-caches and can fetch them ahead of time.
package warmup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/souffle-app/souffle-content/internal/assetref"
	"github.com/souffle-app/souffle-content/internal/manifest"
	"github.com/souffle-app/souffle-content/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel asset requests.
const DefaultConcurrency = 4

// CoreAssets returns the union of asset paths of every scene belonging to a core lesson,
// in manifest order with duplicates removed.
func CoreAssets(m *manifest.Manifest) []string {
	out := []string{}
	if m == nil {
		return out
	}
	core := make(map[string]bool)
	for _, l := range m.Lessons {
		if l.IsCore {
			core[l.ID] = true
		}
	}
	seen := make(map[string]bool)
	for _, s := range m.Scenes {
		if !core[s.LessonID] {
			continue
		}
		for _, p := range s.Assets {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Status of one fetched asset.
type Status string

const (
	StatusVerified Status = "verified" // bytes match the manifest hash
	StatusFetched  Status = "fetched"  // no hash in the manifest to compare against
	StatusMismatch Status = "mismatch"
	StatusFailed   Status = "failed"
)

// Item is the outcome for one asset.
type Item struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
	Bytes  int64  `json:"bytes"`
	Error  string `json:"error,omitempty"`
}

// Report summarises a warm-up run. Items are sorted by path.
type Report struct {
	Items    []Item        `json:"items"`
	Verified int           `json:"verified"`
	Fetched  int           `json:"fetched"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether every asset was fetched and no hash disagreed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Options configures Warm.
type Options struct {
	BaseURL     string
	Client      *http.Client
	Concurrency int
}

// Warm fetches paths relative to BaseURL, verifying bytes against hashes in m.Assets where
// present. Individual failures are recorded in the report; the error is only for bad
// options or a cancelled context.
func Warm(ctx context.Context, m *manifest.Manifest, paths []string, opts Options) (*Report, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var hashes map[string]string
	if m != nil {
		hashes = m.Assets
	}

	start := time.Now()
	report := &Report{Items: make([]Item, 0, len(paths))}
	mu := &sync.Mutex{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			item := fetchOne(gctx, client, opts.BaseURL, p, hashes[p])

			mu.Lock()
			defer mu.Unlock()
			report.Items = append(report.Items, item)
			switch item.Status {
			case StatusVerified:
				report.Verified++
			case StatusFetched:
				report.Fetched++
			default:
				report.Failed++
				logger.Warn("asset warm-up failed", logger.String("path", p), logger.String("error", item.Error))
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Items, func(i, j int) bool { return report.Items[i].Path < report.Items[j].Path })
	report.Duration = time.Since(start)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func fetchOne(ctx context.Context, client *http.Client, baseURL, path, want string) Item {
	item := Item{Path: path}
	fail := func(err error) Item {
		item.Status = StatusFailed
		item.Error = err.Error()
		return item
	}

	target, err := url.JoinPath(baseURL, path)
	if err != nil {
		return fail(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fail(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("unexpected status %s", resp.Status))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(err)
	}
	item.Bytes = int64(len(data))

	if want == "" {
		item.Status = StatusFetched
		return item
	}
	if got := assetref.HashBytes(data); got != want {
		item.Status = StatusMismatch
		item.Error = fmt.Sprintf("hash %s does not match manifest %s", got, want)
		return item
	}
	item.Status = StatusVerified
	logger.Debug("asset verified", logger.String("path", path))
	return item
}
