package safeio

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanUserPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		hasError bool
	}{
		{name: "simple path", input: "file.txt", expected: "file.txt"},
		{name: "relative path", input: "./subdir/file.txt", expected: "subdir/file.txt"},
		{name: "absolute path", input: "/tmp/file.txt", expected: "/tmp/file.txt"},
		{name: "path with traversal", input: "../../../etc/passwd", hasError: true},
		{name: "traversal in middle", input: "valid/../../../etc/passwd", hasError: true},
		{name: "dots inside a name", input: "clip..final.mp3", expected: "clip..final.mp3"},
		{name: "empty path", input: "", expected: "."},
		{name: "parent directory", input: "..", hasError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanUserPath(tt.input)
			if tt.hasError {
				assert.ErrorIs(t, err, ErrTraversal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWebRootRelative(t *testing.T) {
	got, err := WebRootRelative("/assets/audio/a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "assets/audio/a.mp3", got)

	got, err = WebRootRelative("img/x.png")
	require.NoError(t, err)
	assert.Equal(t, "img/x.png", got)

	_, err = WebRootRelative("/")
	assert.Error(t, err)

	_, err = WebRootRelative("/../secret.txt")
	assert.ErrorIs(t, err, ErrTraversal)
}

func TestExistsAndIsDir(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("lessons/l1", 0o755))
	f, err := fs.Create("lessons/l1/lesson.json")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.True(t, Exists(fs, "lessons/l1/lesson.json"))
	assert.False(t, IsDir(fs, "lessons/l1/lesson.json"))
	assert.True(t, IsDir(fs, "lessons/l1"))
	assert.False(t, Exists(fs, "lessons/l2"))
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, WriteFileAtomic(fs, "out/nested/manifest.json", []byte(`{"a":1}`)))

	data, err := ReadFile(fs, "out/nested/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	entries, err := fs.ReadDir("out/nested")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteFileAtomicReplacesOnDisk(t *testing.T) {
	dir := t.TempDir()
	fs := osfs.New(dir)

	require.NoError(t, WriteFileAtomic(fs, "content-manifest.json", []byte("first")))
	require.NoError(t, WriteFileAtomic(fs, "content-manifest.json", []byte("second")))

	data, err := ReadFile(fs, "content-manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.FileExists(t, filepath.Join(dir, "content-manifest.json"))
}
