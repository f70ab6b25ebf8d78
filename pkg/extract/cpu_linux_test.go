//go:build linux

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCPUInfo(t *testing.T, freqs ...float64) string {
	t.Helper()
	var b strings.Builder
	for i, f := range freqs {
		fmt.Fprintf(&b, "processor\t: %d\nmodel name\t: test\ncpu MHz\t\t: %.3f\ncore id\t\t: %d\n\n", i, f, i)
	}
	path := filepath.Join(t.TempDir(), "cpuinfo")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestCountPerfCores(t *testing.T) {
	hybrid := writeCPUInfo(t, 4800, 4800, 4800, 4800, 3000, 3000, 3000, 3000)
	assert.Equal(t, 4, countPerfCores(hybrid))

	uniform := writeCPUInfo(t, 3000, 3000, 3000, 3000)
	assert.Equal(t, 0, countPerfCores(uniform))

	assert.Equal(t, 0, countPerfCores(filepath.Join(t.TempDir(), "missing")))
}
