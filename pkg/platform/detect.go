// pkg/platform/detect.go
package platform

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/arc-language/layerslim/pkg/layout"
)

const versionProbe = "import sys; print('python%d.%d' % sys.version_info[:2])"

var runtimeRe = regexp.MustCompile(`^python3\.\d+$`)

// Platform describes the build host and the interpreter layers target
type Platform struct {
	OS       string // linux, darwin, windows
	Arch     string // amd64, arm64
	Python   string // interpreter that was probed, empty if none was found
	Runtime  string // lib/<runtime> directory name, e.g. python3.11
	Detected bool   // false when Runtime is the fallback
}

// Detect probes python for its version. A missing interpreter is not an
// error: the runtime falls back to layout.DefaultRuntime.
func Detect(ctx context.Context, python string) (*Platform, error) {
	p := &Platform{
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Runtime: layout.DefaultRuntime,
	}

	if python == "" || !commandExists(python) {
		return p, nil
	}
	p.Python = python

	out, err := exec.CommandContext(ctx, python, "-c", versionProbe).Output()
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", python, err)
	}
	rt, err := ParseRuntime(string(out))
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", python, err)
	}
	p.Runtime = rt
	p.Detected = true
	return p, nil
}

// ParseRuntime validates a runtime name such as "python3.9"
func ParseRuntime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !runtimeRe.MatchString(s) {
		return "", fmt.Errorf("unsupported runtime %q", s)
	}
	return s, nil
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	source := "fallback"
	if p.Detected {
		source = p.Python
	}
	return fmt.Sprintf("%s/%s (runtime: %s via %s)", p.OS, p.Arch, p.Runtime, source)
}
