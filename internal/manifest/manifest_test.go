package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/souffle-app/souffle-content/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.FixedZone("CET", 3600))

func sample() *Manifest {
	return Assemble(fixedNow,
		[]content.World{{ID: "w2", Slug: "b", Title: "B", Order: 2}, {ID: "w1", Slug: "a", Title: "A", Order: 1}},
		[]content.Lesson{{ID: "l1", WorldID: "w1", Slug: "l", Title: "L", Order: 1, IsCore: true, Difficulty: 1}},
		[]SceneEntry{
			{ID: "s-late", Type: content.VisualRecall, LessonID: "l1", Order: 3, Hash: "sha256:aa", Assets: []string{"/i.png"}},
			{ID: "s-first-tie", Type: content.Immersion, LessonID: "l1", Order: 1, Hash: "sha256:bb"},
			{ID: "s-second-tie", Type: content.CultureMinute, LessonID: "l1", Order: 1, Hash: "sha256:cc"},
		},
		map[string]string{"/i.png": "sha256:dd", "/a&b.mp3": "sha256:ee"},
	)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "2026-03-14T08:26:53.589Z", Version(fixedNow))
	assert.Equal(t, "2026-01-01T00:00:00.000Z", Version(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAssembleSortsStably(t *testing.T) {
	m := sample()
	assert.Equal(t, "w1", m.Worlds[0].ID)
	ids := []string{}
	for _, s := range m.Scenes {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s-first-tie", "s-second-tie", "s-late"}, ids)
}

func TestEncode(t *testing.T) {
	data, err := Encode(sample())
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "{\n  \"version\": \"2026-03-14T08:26:53.589Z\",\n  \"worlds\": ["), out)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"assets": []`, "nil asset lists encode as empty arrays")
	assert.Contains(t, out, `"/a&b.mp3": "sha256:ee"`, "no HTML escaping")
	assert.Less(t, strings.Index(out, `"/a&b.mp3"`), strings.Index(out, `"/i.png"`), "asset keys sorted")
	assert.Less(t, strings.Index(out, `"worlds"`), strings.Index(out, `"lessons"`))
	assert.Less(t, strings.Index(out, `"lessons"`), strings.Index(out, `"scenes"`))
	assert.Contains(t, out, `"isCore": true`)
}

func TestEncodeEmpty(t *testing.T) {
	data, err := Encode(&Manifest{Version: "v"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"v","worlds":[],"lessons":[],"scenes":[],"assets":{}}`, string(data))
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode(sample())
	require.NoError(t, err)
	b, err := Encode(sample())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteAndLoadFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, Write(fs, "data/"+DefaultName, sample()))

	got, err := LoadFile(fs, "data/"+DefaultName)
	require.NoError(t, err)
	want := sample()
	want.normalize()
	assert.Equal(t, want, got)
	require.NotNil(t, got.Lesson("l1"))
	assert.Nil(t, got.Lesson("missing"))

	entries, err := fs.ReadDir("data")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFailureIsErrWrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte("file"), 0o644))

	err := Write(osfs.New(dir), "data/"+DefaultName, sample())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{nope"))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	data, err := Encode(sample())
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+DefaultName {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	m, err := Open(context.Background(), srv.Client(), srv.URL+"/"+DefaultName)
	require.NoError(t, err)
	assert.Len(t, m.Scenes, 3)

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOpenLocalPath(t *testing.T) {
	dir := t.TempDir()
	data, err := Encode(sample())
	require.NoError(t, err)
	path := filepath.Join(dir, DefaultName)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	m, err := Open(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14T08:26:53.589Z", m.Version)

	_, err = Open(context.Background(), nil, filepath.Join(dir, "nope.json"))
	assert.Error(t, err)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/content-manifest.json"))
	assert.True(t, IsURL("http://localhost:5173/content-manifest.json"))
	assert.False(t, IsURL("public/content-manifest.json"))
	assert.False(t, IsURL("/abs/content-manifest.json"))
	assert.False(t, IsURL("file:///x.json"))
}

