package terminal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuralexjig/jtool/conan"
	"github.com/nuralexjig/jtool/init_proj"
	"github.com/nuralexjig/jtool/meta"
)

var errUnhandledIntent = errors.New("unhandled intent")

// Dispatch runs the lifecycle action for intent. NoOp does nothing.
func (t *Terminal) Dispatch(ctx context.Context, intent Intent) error {
	switch intent := intent.(type) {
	case CreateProject:
		return t.CreateProject(intent)
	case RepairProject:
		return t.RepairProject(intent)
	case NoOp:
		return nil
	default:
		return fmt.Errorf("%w: %T", errUnhandledIntent, intent)
	}
}

func (t *Terminal) CreateProject(c CreateProject) error {
	project, dir, err := t.Skeleton.Create(c.Name, c.Location, c.Version, c.Author)
	if err != nil {
		return fmt.Errorf("could not create project %s: %w", c.Name, err)
	}
	t.Reporter.Info(fmt.Sprintf("created %s from %s in %s", project.Name, project.Author, dir))
	return nil
}

func (t *Terminal) RepairProject(r RepairProject) error {
	restored, err := t.Skeleton.Repair(r.Location)
	if err != nil {
		return fmt.Errorf("could not repair project at %s: %w", r.Location, err)
	}
	if len(restored) == 0 {
		t.Reporter.Info(fmt.Sprintf("project at %s is complete", r.Location))
		return nil
	}
	t.Reporter.Info(fmt.Sprintf("restored %s in %s", strings.Join(restored, ", "), r.Location))
	return nil
}

// AddDependency declares a conancenter dependency in the project at location,
// resolving its latest version first if req has none.
func (t *Terminal) AddDependency(ctx context.Context, location string, req AddRequest) error {
	if req.FromRemote {
		return fmt.Errorf("%w: adding %s from remote %q", ErrUnsupported, req.Name, req.RemoteName)
	}
	if !meta.Exists(location) {
		return fmt.Errorf("no project at %s: %w", location, fs.ErrNotExist)
	}

	version := req.Version
	if version == "" {
		var err error
		version, err = t.Resolver.LatestVersion(ctx, req.Name)
		if err != nil {
			return fmt.Errorf("failed to resolve latest version of %s: %w", req.Name, err)
		}
	}

	dep := meta.Dependency{
		Name:    req.Name,
		Version: version,
		Remote:  meta.RemoteConanCenter,
	}
	err := meta.Update(ctx, location, func(p *meta.Project) error {
		p.AddDependency(dep)
		return nil
	})
	if err != nil {
		return err
	}
	t.Reporter.Info(fmt.Sprintf("added %s to %s", dep, location))
	return nil
}

// LogFileLayout names reload logs inside the project's log directory.
const LogFileLayout = "02_01_2006-15_04_05"

// Reload rewrites the declaration file from the project's conancenter
// dependencies and runs conan install, saving its output to a log file.
func (t *Terminal) Reload(ctx context.Context, location string) error {
	project, err := meta.Load(location)
	if err != nil {
		return err
	}
	deps := project.DependenciesFrom(meta.RemoteConanCenter)
	if err := conan.WriteDeclarations(location, deps); err != nil {
		return err
	}

	log, installErr := t.Resolver.Install(ctx, location)
	logPath, err := t.writeLog(location, log)
	if err != nil {
		if installErr != nil {
			return installErr
		}
		return err
	}
	if installErr != nil {
		return fmt.Errorf("%w (log in %s)", installErr, logPath)
	}

	t.Reporter.Info(fmt.Sprintf("the project dependencies have been successfully reloaded (%d declared, log in %s)",
		len(deps), logPath))
	return nil
}

func (t *Terminal) writeLog(location string, log string) (string, error) {
	dir := filepath.Join(location, init_proj.LogDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(dir, t.now().Format(LogFileLayout)+".log")
	if err := os.WriteFile(path, []byte(log), 0644); err != nil {
		return "", fmt.Errorf("failed to write log: %w", err)
	}
	return path, nil
}
