// pkg/installer/pip_test.go
package installer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/layerslim/pkg/core"
)

var _ core.Installer = (*Pip)(nil)

func fakePip(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script pip")
	}
	path := filepath.Join(t.TempDir(), "pip")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestTargetDirAndArgs(t *testing.T) {
	p := New(&Config{CachePath: "/cache"})
	assert.Equal(t, "/cache/pkg_boto3_latest", p.TargetDir(""))
	assert.Equal(t, "/cache/pkg_boto3_1.18.43", p.TargetDir("1.18.43"))
	assert.Equal(t, []string{"install", "-t", "/d", "boto3"}, p.Args("", "/d"))
	assert.Equal(t, []string{"install", "-t", "/d", "boto3==1.18.43"}, p.Args("1.18.43", "/d"))

	p = New(&Config{CachePath: "/cache", Requirements: []string{"msgpack>=1.0"}})
	assert.Equal(t, "/cache/pkg_boto3_latest_msgpack--1.0", p.TargetDir(""))
	assert.Equal(t, []string{"install", "-t", "/d", "boto3", "msgpack>=1.0"}, p.Args("", "/d"))
}

func TestInstallRunsPipOnce(t *testing.T) {
	cache := t.TempDir()
	pip := fakePip(t, `mkdir -p "$3/boto3" && echo "$@" > "$3/args"`)
	p := New(&Config{Pip: pip, CachePath: cache})

	dir, err := p.Install(context.Background(), "1.26.0")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, "pkg_boto3_1.26.0"), dir)

	args, err := os.ReadFile(filepath.Join(dir, "args"))
	require.NoError(t, err)
	assert.Equal(t, "install -t "+dir+" boto3==1.26.0", strings.TrimSpace(string(args)))

	// the cached directory is reused without invoking pip
	broken := New(&Config{Pip: fakePip(t, "exit 3"), CachePath: cache})
	again, err := broken.Install(context.Background(), "1.26.0")
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestInstallFailureRemovesDir(t *testing.T) {
	cache := t.TempDir()
	p := New(&Config{Pip: fakePip(t, `echo "no matching distribution" >&2; exit 1`), CachePath: cache})

	_, err := p.Install(context.Background(), "0.0.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstallFailed)
	assert.Contains(t, err.Error(), "no matching distribution")

	_, statErr := os.Stat(p.TargetDir("0.0.0"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstallMissingPip(t *testing.T) {
	p := New(&Config{Pip: filepath.Join(t.TempDir(), "missing-pip"), CachePath: t.TempDir()})
	_, err := p.Install(context.Background(), "")
	assert.ErrorIs(t, err, ErrInstallFailed)
}
