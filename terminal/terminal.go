// Package terminal interprets jtool command lines and runs the project
// lifecycle actions they name.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nuralexjig/jtool/conan"
	"github.com/nuralexjig/jtool/init_proj"
	"github.com/nuralexjig/jtool/meta"
	"github.com/nuralexjig/jtool/trace"
)

var (
	// ErrMissingArgument is returned when a required argument is absent.
	ErrMissingArgument = errors.New("missing argument")
	// ErrUnsupported is returned for operations jtool does not implement.
	ErrUnsupported = errors.New("unsupported operation")
)

// DefaultProjectName names projects created without --name=.
const DefaultProjectName = "demo"

// NoVersion as a --version= value asks for the latest version, like an
// absent --version=.
const NoVersion = "none"

type Terminal struct {
	Resolver conan.Resolver
	Skeleton *init_proj.Skeleton
	Reporter trace.Reporter
	// Now is the clock used to name reload logs.
	Now func() time.Time
	// Banner is reported once a top-level command line has been interpreted.
	Banner string
}

func (t *Terminal) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

// argument returns the value of the first --key=value token in args.
func argument(key string, args []string) (string, bool) {
	prefix := "--" + key + "="
	for _, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			return strings.TrimPrefix(arg, prefix), true
		}
	}
	return "", false
}

// executableDir returns the directory holding the executable named by args[0].
func executableDir(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("%w: executable path", ErrMissingArgument)
	}
	return filepath.Dir(args[0]), nil
}

// locationArgument returns --path= if given and the executable's directory
// otherwise.
func locationArgument(args []string) (string, error) {
	if path, ok := argument("path", args); ok {
		return path, nil
	}
	return executableDir(args)
}

// HandleArguments interprets args as a process argument list (args[0] is the
// executable path) and returns the resulting intent.
//
// The add and reload verbs run immediately and yield NoOp.
func (t *Terminal) HandleArguments(ctx context.Context, args []string) (Intent, error) {
	if len(args) < 2 {
		return NoOp{}, nil
	}
	named := args[1:]

	switch verb := args[1]; verb {
	case ".":
		dir, err := executableDir(args)
		if err != nil {
			return nil, err
		}
		return t.intentFor(dir, named)
	case "add":
		req, err := parseAdd(args)
		if err != nil {
			return nil, err
		}
		location, err := locationArgument(args)
		if err != nil {
			return nil, err
		}
		return NoOp{}, t.AddDependency(ctx, location, req)
	case "reload":
		location, err := locationArgument(args)
		if err != nil {
			return nil, err
		}
		return NoOp{}, t.Reload(ctx, location)
	default:
		return t.intentFor(verb, named)
	}
}

// AddRequest describes a dependency to add.
type AddRequest struct {
	Name string
	// Version to declare; empty means resolve the latest version.
	Version string
	// FromRemote selects a remote other than conancenter, named by RemoteName.
	FromRemote bool
	RemoteName string
}

func parseAdd(args []string) (AddRequest, error) {
	if len(args) < 3 || args[2] == "" || strings.HasPrefix(args[2], "--") {
		return AddRequest{}, fmt.Errorf("%w: usage: add <name> [--version=V] [--remote=R] [--path=P]", ErrMissingArgument)
	}
	req := AddRequest{Name: args[2]}
	named := args[1:]
	if version, ok := argument("version", named); ok && version != NoVersion {
		req.Version = version
	}
	if remote, ok := argument("remote", named); ok && remote != "false" {
		req.FromRemote = true
		req.RemoteName = remote
	}
	return req, nil
}

// PathClass says whether a target path holds an existing project.
type PathClass int

const (
	NewProject PathClass = iota
	ExistingProject
)

func (c PathClass) String() string {
	switch c {
	case NewProject:
		return "new"
	case ExistingProject:
		return "existing"
	}
	return fmt.Sprintf("PathClass(%d)", int(c))
}

// Classify reports whether path is an existing project (a directory with a
// metadata file) or a target for a new one.
func Classify(path string) (PathClass, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewProject, nil
	}
	if err != nil {
		return NewProject, err
	}
	if meta.Exists(path) {
		return ExistingProject, nil
	}
	return NewProject, nil
}

func (t *Terminal) intentFor(path string, args []string) (Intent, error) {
	class, err := Classify(path)
	if err != nil {
		return nil, err
	}
	if class == ExistingProject {
		return RepairProject{Location: path}, nil
	}
	name, ok := argument("name", args)
	if !ok {
		name = DefaultProjectName
	}
	return CreateProject{Name: name, Location: path}, nil
}
