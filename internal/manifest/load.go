package manifest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/souffle-app/souffle-content/pkg/safeio"
)

// maxManifestBytes caps a fetched manifest.
const maxManifestBytes = 32 << 20

// LoadFile reads and decodes a manifest from fs.
func LoadFile(fs billy.Filesystem, name string) (*Manifest, error) {
	data, err := safeio.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", name, err)
	}
	return Decode(data)
}

// Fetch downloads and decodes a manifest over HTTP.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (*Manifest, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch manifest %s: unexpected status %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch manifest %s: %w", rawURL, err)
	}
	return Decode(data)
}

// IsURL reports whether src is an http(s) URL rather than a file path.
func IsURL(src string) bool {
	u, err := url.Parse(src)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Open loads a manifest from an http(s) URL or a local path.
func Open(ctx context.Context, client *http.Client, src string) (*Manifest, error) {
	if IsURL(src) {
		return Fetch(ctx, client, src)
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", src, err)
	}
	return LoadFile(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
}
