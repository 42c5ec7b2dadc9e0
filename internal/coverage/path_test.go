package coverage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		name string
		path string
		base string
		want string
	}{
		{"absolute inside base", "/home/ci/project/src/main.php", "/home/ci/project", "src/main.php"},
		{"absolute outside base", "/home/ci/lib/util.php", "/home/ci/project", "../lib/util.php"},
		{"absolute with dot segments", "/home/ci/project/./src/../lib/a.php", "/home/ci/project", "lib/a.php"},
		{"relative is cleaned", "./src/../lib/a.php", "/home/ci/project", "lib/a.php"},
		{"relative keeps leading parents", "../other/a.php", "/home/ci/project", "../other/a.php"},
		{"backslashes are normalized", `src\lib\a.php`, "/home/ci/project", "src/lib/a.php"},
		{"already canonical", "src/a.php", "/home/ci/project", "src/a.php"},
		{"no base", "/abs/a.php", "", "/abs/a.php"},
		{"empty", "", "/home", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTo(tt.path, tt.base))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, "testdata/a.php", NormalizePath(filepath.Join(wd, "testdata", "a.php")))
	assert.Equal(t, "testdata/a.php", NormalizePath("./testdata/x/../a.php"))
}
