package encoding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "utf-8"},
		{"UTF8", "utf-8"},
		{"latin1", "windows-1252"},
		{"ISO-8859-2", "iso-8859-2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Canonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("klingon-8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "klingon-8")
}

func TestEncodeDecode_Latin1(t *testing.T) {
	raw, err := Encode([]byte("José Müller"), "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, []byte{'J', 'o', 's', 0xE9, ' ', 'M', 0xFC, 'l', 'l', 'e', 'r'}, raw)

	back, err := Decode(raw, "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "José Müller", string(back))
}

func TestEncode_Unrepresentable(t *testing.T) {
	_, err := Encode([]byte("東京"), "windows-1252")
	assert.Error(t, err)
}

func TestDecode_NormalizesAndStripsBOM(t *testing.T) {
	// "e" followed by a combining acute accent
	in := []byte("\uFEFFRene\u0301")

	out, err := Decode(in, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "Ren\u00e9", string(out))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Dir(path)))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = os.Stat(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, IsNotExist(err))
}
