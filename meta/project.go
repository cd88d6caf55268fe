package meta

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofrs/flock"
)

const (
	// FileName is the metadata file at the project root. Its presence marks a
	// directory as an existing project.
	FileName = "project.json"

	DefaultVersion = "1.0.1"
	DefaultAuthor  = "unknown"

	// RemoteConanCenter is the only remote that reload resolves against.
	RemoteConanCenter = "conancenter"
)

// ErrSerialization is returned when project metadata cannot be decoded or
// encoded.
var ErrSerialization = errors.New("malformed project metadata")

// Dependency is one declared dependency of a project.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Remote  string `json:"remote"`
}

func (d Dependency) String() string {
	return d.Name + "/" + d.Version
}

// Project is the persisted record of a project's identity and declared
// dependencies.
//
// Dependencies are kept in declaration order and are never deduplicated here.
type Project struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Author       string       `json:"author"`
	Dependencies []Dependency `json:"dependencies"`
}

// New returns a project with no dependencies. An empty version or author is
// replaced by its default.
func New(name, version, author string) *Project {
	if version == "" {
		version = DefaultVersion
	}
	if author == "" {
		author = DefaultAuthor
	}
	return &Project{
		Name:         name,
		Version:      version,
		Author:       author,
		Dependencies: []Dependency{},
	}
}

// AddDependency appends dep to the dependency list.
func (p *Project) AddDependency(dep Dependency) {
	p.Dependencies = append(p.Dependencies, dep)
}

// DependenciesFrom returns the dependencies declared against remote, in
// declaration order.
func (p *Project) DependenciesFrom(remote string) []Dependency {
	var deps []Dependency
	for _, dep := range p.Dependencies {
		if dep.Remote == remote {
			deps = append(deps, dep)
		}
	}
	return deps
}

func Parse(r io.Reader) (*Project, error) {
	p := &Project{}
	if err := json.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: missing project name", ErrSerialization)
	}
	if p.Dependencies == nil {
		p.Dependencies = []Dependency{}
	}
	return p, nil
}

// Marshal encodes p as indented JSON with a trailing newline.
func (p *Project) Marshal() ([]byte, error) {
	out := *p
	if out.Dependencies == nil {
		out.Dependencies = []Dependency{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return append(data, '\n'), nil
}

// Path returns the metadata file path for the project rooted at dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir contains a metadata file.
func Exists(dir string) bool {
	info, err := os.Stat(Path(dir))
	return err == nil && info.Mode().IsRegular()
}

// Load reads the metadata file of the project rooted at dir.
func Load(dir string) (*Project, error) {
	contents, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("could not read project metadata: %w", err)
	}
	p, err := Parse(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Path(dir), err)
	}
	return p, nil
}

// Save writes p as the metadata file of the project rooted at dir.
func Save(dir string, p *Project) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("could not write project metadata: %w", err)
	}
	return nil
}

const lockTimeout = 10 * time.Second

// LockDir holds the metadata lock file, relative to the project root.
const LockDir = "build"

// LockPath returns the lock file guarding the metadata of the project rooted
// at dir. It lives in the build directory to keep the project root clean.
func LockPath(dir string) string {
	return filepath.Join(dir, LockDir, "."+FileName+".lock")
}

// Update loads the project rooted at dir, applies fn, and saves the result.
//
// The read-modify-write holds an advisory lock on LockPath(dir). Processes
// that bypass Update (or edit the file by hand) are not excluded.
func Update(ctx context.Context, dir string, fn func(p *Project) error) error {
	if !Exists(dir) {
		// not a project; don't create the lock directory
		_, err := Load(dir)
		if err == nil {
			err = fmt.Errorf("could not read project metadata: %w", os.ErrNotExist)
		}
		return err
	}
	lockPath := LockPath(dir)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return fmt.Errorf("creating lock directory: %w", err)
	}
	fl := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring lock %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("timed out acquiring lock %s", lockPath)
	}
	defer func() { _ = fl.Unlock() }()

	p, err := Load(dir)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	return Save(dir, p)
}
