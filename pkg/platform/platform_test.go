// pkg/platform/platform_test.go
package platform

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/layerslim/pkg/core"
	"github.com/arc-language/layerslim/pkg/layout"
)

func fakePython(t *testing.T, output string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script interpreter")
	}
	path := filepath.Join(t.TempDir(), "python")
	script := "#!/bin/sh\necho '" + output + "'\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestParseRuntime(t *testing.T) {
	rt, err := ParseRuntime("python3.11\n")
	require.NoError(t, err)
	assert.Equal(t, "python3.11", rt)

	for _, bad := range []string{"", "python2.7", "3.11", "python3"} {
		_, err := ParseRuntime(bad)
		assert.Error(t, err, bad)
	}
}

func TestDetect(t *testing.T) {
	p, err := Detect(context.Background(), fakePython(t, "python3.12"))
	require.NoError(t, err)
	assert.Equal(t, "python3.12", p.Runtime)
	assert.True(t, p.Detected)
}

func TestDetectFallback(t *testing.T) {
	p, err := Detect(context.Background(), "definitely-not-a-python-binary")
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultRuntime, p.Runtime)
	assert.False(t, p.Detected)
	assert.Contains(t, p.String(), "fallback")
}

func TestDetectGarbage(t *testing.T) {
	_, err := Detect(context.Background(), fakePython(t, "Python 3.12.1"))
	assert.Error(t, err)
}

func TestResolveRuntime(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Runtime = "python3.9"
	rt, err := ResolveRuntime(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "python3.9", rt)

	cfg.Runtime = ""
	cfg.Python = fakePython(t, "python3.10")
	rt, err = ResolveRuntime(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "python3.10", rt)
}
