package conan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrResolver is returned when conan does not produce a usable version or
// install log.
var ErrResolver = errors.New("dependency resolver failed")

const DefaultTimeout = 10 * time.Minute

// Resolver looks up dependency versions and installs a project's declared
// dependencies.
type Resolver interface {
	// LatestVersion returns the newest version of package name.
	LatestVersion(ctx context.Context, name string) (string, error)
	// Install installs the dependencies declared in dir and returns the
	// resolver's output.
	Install(ctx context.Context, dir string) (string, error)
}

// Conan is a Resolver that runs the conan binary.
type Conan struct {
	Binary  string
	Remote  string
	Timeout time.Duration
	Log     zerolog.Logger
	// Run executes a prepared command. Stdout and Stderr are already set.
	Run func(cmd *exec.Cmd) error
}

func New(binary, remote string, timeout time.Duration) *Conan {
	return &Conan{
		Binary:  binary,
		Remote:  remote,
		Timeout: timeout,
		Log:     zerolog.Nop(),
		Run:     (*exec.Cmd).Run,
	}
}

// run executes conan with args and returns stdout, plus stderr when combined
// is set.
func (c *Conan) run(ctx context.Context, combined bool, args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	binary := c.Binary
	if binary == "" {
		binary = "conan"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if combined {
		cmd.Stderr = &stdout
	}

	c.Log.Debug().Strs("args", cmd.Args).Msg("running conan")
	start := time.Now()
	run := c.Run
	if run == nil {
		run = (*exec.Cmd).Run
	}
	err := run(cmd)
	c.Log.Debug().Dur("elapsed", time.Since(start)).Err(err).Msg("conan finished")

	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), fmt.Errorf("%w: %s timed out after %s", ErrResolver, strings.Join(cmd.Args, " "), timeout)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if combined || msg == "" {
			return stdout.String(), fmt.Errorf("%w: %s: %v", ErrResolver, strings.Join(cmd.Args, " "), err)
		}
		return stdout.String(), fmt.Errorf("%w: %s: %v: %s", ErrResolver, strings.Join(cmd.Args, " "), err, msg)
	}
	return stdout.String(), nil
}

func (c *Conan) remote() string {
	if c.Remote == "" {
		return "conancenter"
	}
	return c.Remote
}

// LatestVersion runs conan search and returns the version of the last
// reference it lists.
func (c *Conan) LatestVersion(ctx context.Context, name string) (string, error) {
	out, err := c.run(ctx, false, "search", name, "--remote="+c.remote())
	if err != nil {
		return "", err
	}
	return latestFromSearch(name, out)
}

func latestFromSearch(name, output string) (string, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return "", fmt.Errorf("%w: conan search returned no results for %s", ErrResolver, name)
	}
	refName, version, err := ParseReference(last)
	if err != nil {
		return "", err
	}
	if refName != name {
		return "", fmt.Errorf("%w: conan search for %s returned %s", ErrResolver, name, last)
	}
	return version, nil
}

// ParseReference splits a conan reference of the form
// name/version[@user/channel][#revision] into name and version.
func ParseReference(ref string) (name string, version string, err error) {
	if idx := strings.IndexByte(ref, '#'); idx >= 0 {
		ref = ref[:idx]
	}
	if idx := strings.IndexByte(ref, '@'); idx >= 0 {
		ref = ref[:idx]
	}
	name, version, ok := strings.Cut(ref, "/")
	if !ok || name == "" || version == "" || strings.ContainsAny(version, "/ \t") {
		return "", "", fmt.Errorf("%w: not a package reference: %q", ErrResolver, ref)
	}
	return name, version, nil
}

// Install runs conan install on dir, building missing binaries. The returned
// log holds stdout and stderr, and is returned even if conan fails.
func (c *Conan) Install(ctx context.Context, dir string) (string, error) {
	out, err := c.run(ctx, true, "install", dir, "--build=missing")
	return strings.TrimRight(out, " \t\r\n"), err
}
