package init_proj

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuralexjig/jtool/conan"
	"github.com/nuralexjig/jtool/meta"
)

const (
	SourceDir  = "source_files"
	IncludeDir = "include_files"
	BuildDir   = "build"
	LogDir     = "logs"
	BinDir     = "bin"

	BuildDescriptorFile = "CMakeLists.txt"
)

// Directories are created in every new project, in this order.
var Directories = []string{SourceDir, IncludeDir, BuildDir, LogDir, BinDir}

// MainSourceFile is the starter source file, relative to the project root.
var MainSourceFile = filepath.Join(SourceDir, "main.cpp")

// Skeleton creates and repairs project skeletons on disk.
type Skeleton struct {
	CxxStandard  int
	CMakeMinimum string
	Templates    TemplateProvider
}

func (s *Skeleton) templates() TemplateProvider {
	if s.Templates == nil {
		return EmbeddedTemplates{}
	}
	return s.Templates
}

func (s *Skeleton) data(name string) ProjectData {
	return NewProjectData(name, s.CxxStandard, s.CMakeMinimum)
}

type skeletonFile struct {
	path   string
	render func(ProjectData) (string, error)
}

func (s *Skeleton) files() []skeletonFile {
	t := s.templates()
	return []skeletonFile{
		{path: BuildDescriptorFile, render: t.BuildDescriptor},
		{path: conan.DeclarationFile, render: func(ProjectData) (string, error) { return "", nil }},
		{path: MainSourceFile, render: t.MainSource},
	}
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid project name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid project name %q: contains a path separator", name)
	}
	return nil
}

// canonicalize returns the absolute, symlink-free form of location, creating
// the directory if it does not exist.
func canonicalize(location string) (string, error) {
	if err := os.MkdirAll(location, 0755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Create writes a new project named name into location.
//
// An empty version or author takes the metadata default. Create stops at the
// first failure and does not remove what it already created; in particular, a
// skeleton directory that already exists is an error.
func (s *Skeleton) Create(name, location, version, author string) (*meta.Project, string, error) {
	if err := validateName(name); err != nil {
		return nil, "", err
	}
	dir, err := canonicalize(location)
	if err != nil {
		return nil, "", err
	}

	project := meta.New(name, version, author)
	if err := meta.Save(dir, project); err != nil {
		return nil, "", err
	}

	for _, d := range Directories {
		if err := os.Mkdir(filepath.Join(dir, d), 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create %s directory: %w", d, err)
		}
	}

	data := s.data(project.Name)
	for _, f := range s.files() {
		if err := writeFile(dir, f, data); err != nil {
			return nil, "", err
		}
	}

	return project, dir, nil
}

func writeFile(dir string, f skeletonFile, data ProjectData) error {
	content, err := f.render(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, f.path), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

func missing(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, err
}

// Repair restores missing skeleton directories and files of the existing
// project at location and returns what it restored. Nothing is written for a
// complete project, and existing files are never overwritten.
func (s *Skeleton) Repair(location string) ([]string, error) {
	project, err := meta.Load(location)
	if err != nil {
		return nil, err
	}

	var restored []string
	for _, d := range Directories {
		path := filepath.Join(location, d)
		isMissing, err := missing(path)
		if err != nil {
			return restored, err
		}
		if !isMissing {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return restored, fmt.Errorf("failed to create %s directory: %w", d, err)
		}
		restored = append(restored, d)
	}

	data := s.data(project.Name)
	for _, f := range s.files() {
		isMissing, err := missing(filepath.Join(location, f.path))
		if err != nil {
			return restored, err
		}
		if !isMissing {
			continue
		}
		if err := writeFile(location, f, data); err != nil {
			return restored, err
		}
		restored = append(restored, f.path)
	}
	return restored, nil
}
