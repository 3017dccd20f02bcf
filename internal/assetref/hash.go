package assetref

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	billy "github.com/go-git/go-billy/v5"
	"github.com/souffle-app/souffle-content/pkg/safeio"
	"golang.org/x/text/unicode/norm"
)

// HashPrefix is prepended to every hex digest in the manifest.
const HashPrefix = "sha256:"

var (
	// ErrNotFound means the asset is not under the public root; it may live on a CDN.
	ErrNotFound = errors.New("asset not found under public root")
	// ErrOutsideRoot means the asset path would resolve outside the public root.
	ErrOutsideRoot = errors.New("asset path escapes public root")
)

// HashBytes returns "sha256:<hex>" of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return HashPrefix + hex.EncodeToString(sum[:])
}

// Hasher hashes asset files under a public (deploy) root.
type Hasher struct {
	public billy.Filesystem
}

// NewHasher returns a hasher reading from the public root filesystem.
func NewHasher(public billy.Filesystem) *Hasher {
	return &Hasher{public: public}
}

// Resolve maps a web path ("/assets/a.mp3") to the file that backs it on the public root.
// Asset names typed on one OS and stored on another may differ in Unicode normalisation
// ("é" precomposed or not), so both NFC and NFD spellings are tried.
func (h *Hasher) Resolve(webPath string) (string, error) {
	rel, err := safeio.WebRootRelative(webPath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", webPath, ErrOutsideRoot)
	}
	for _, candidate := range spellings(rel) {
		if st, err := h.public.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w", webPath, ErrNotFound)
}

// HashAsset returns "sha256:<hex>" of the file behind webPath. Errors wrapping ErrNotFound
// or ErrOutsideRoot are warnings; anything else is a read failure.
func (h *Hasher) HashAsset(webPath string) (string, error) {
	name, err := h.Resolve(webPath)
	if err != nil {
		return "", err
	}
	data, err := safeio.ReadFile(h.public, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", webPath, ErrNotFound)
		}
		return "", fmt.Errorf("read asset %s: %w", webPath, err)
	}
	return HashBytes(data), nil
}

func spellings(p string) []string {
	out := []string{p}
	for _, alt := range []string{norm.NFC.String(p), norm.NFD.String(p)} {
		if alt != out[0] && (len(out) < 2 || alt != out[1]) {
			out = append(out, alt)
		}
	}
	return out
}
