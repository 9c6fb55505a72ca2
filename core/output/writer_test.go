package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"46750", "46750"},
		{"Sisterhood-Initiation", "Sisterhood-Initiation"},
		{"Café au lait", "Cafe-au-lait"},
		{"../../etc/passwd", "etc-passwd"},
		{"  what?!  ", "what"},
		{"", "story"},
		{"///", "story"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.in))
		})
	}
}

func TestWriter_PathAndPersist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := New(dir)
	require.NoError(t, err)

	path := w.Path("46750", ".pdf")
	assert.Equal(t, filepath.Join(dir, "46750.pdf"), path)
	require.NoError(t, Persist(path, []byte("%PDF-1.3")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestPersist_MissingDir(t *testing.T) {
	err := Persist(filepath.Join(t.TempDir(), "missing", "x.pdf"), []byte("x"))
	assert.Error(t, err)
}
