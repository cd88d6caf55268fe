package init_proj_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nuralexjig/jtool/init_proj"
	"github.com/nuralexjig/jtool/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSkeleton() *init_proj.Skeleton {
	return &init_proj.Skeleton{CxxStandard: 20, CMakeMinimum: "3.25"}
}

func TestCreateProject(t *testing.T) {
	location := filepath.Join(t.TempDir(), "p")

	project, dir, err := newSkeleton().Create("demo", location, "", "")
	require.NoError(t, err)
	assert.Equal(t, "demo", project.Name)
	assert.True(t, filepath.IsAbs(dir))

	// Verify metadata on disk
	loaded, err := meta.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.Name)
	assert.Equal(t, "1.0.1", loaded.Version)
	assert.Equal(t, "unknown", loaded.Author)
	assert.Empty(t, loaded.Dependencies)

	for _, d := range []string{"source_files", "include_files", "build", "logs", "bin"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	for _, file := range []string{"CMakeLists.txt", "source_files/main.cpp"} {
		content, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err, "file %s should exist", file)
		assert.NotEmpty(t, content, "file %s should not be empty", file)
	}
	assert.FileExists(t, filepath.Join(dir, "conanfile.txt"))
}

func TestCreateProject_ExplicitVersionAuthor(t *testing.T) {
	_, dir, err := newSkeleton().Create("demo", t.TempDir(), "0.3.0", "alice")
	require.NoError(t, err)

	loaded, err := meta.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "0.3.0", loaded.Version)
	assert.Equal(t, "alice", loaded.Author)
}

func TestCreateProject_TemplateSubstitutions(t *testing.T) {
	_, dir, err := newSkeleton().Create("my-app", t.TempDir(), "", "")
	require.NoError(t, err)

	cmake, err := os.ReadFile(filepath.Join(dir, "CMakeLists.txt"))
	require.NoError(t, err)
	cmakeStr := string(cmake)
	assert.Contains(t, cmakeStr, "cmake_minimum_required(VERSION 3.25)")
	assert.Contains(t, cmakeStr, "project(my_app)")
	assert.Contains(t, cmakeStr, "set(CMAKE_CXX_STANDARD 20)")
	assert.Contains(t, cmakeStr, "add_executable(my_app ${SOURCE_FILES})")
	assert.NotContains(t, cmakeStr, "{{")

	main, err := os.ReadFile(filepath.Join(dir, "source_files", "main.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "namespace my_app {")
	assert.Contains(t, string(main), "my_app::do_some(104);")
}

func TestCreateProject_ExistingSubdirectoryFails(t *testing.T) {
	location := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(location, "build"), 0755))

	_, _, err := newSkeleton().Create("demo", location, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrExist))

	// no rollback: steps before the failure remain
	assert.FileExists(t, filepath.Join(location, "project.json"))
	assert.DirExists(t, filepath.Join(location, "source_files"))
	assert.NoFileExists(t, filepath.Join(location, "CMakeLists.txt"))
}

func TestCreateProject_InvalidName(t *testing.T) {
	for _, name := range []string{"", "..", "a/b"} {
		_, _, err := newSkeleton().Create(name, t.TempDir(), "", "")
		assert.Error(t, err, "name %q", name)
	}
}

type fakeTemplates struct{}

func (fakeTemplates) BuildDescriptor(data init_proj.ProjectData) (string, error) {
	return "build " + data.Identifier + "\n", nil
}

func (fakeTemplates) MainSource(data init_proj.ProjectData) (string, error) {
	return "", errors.New("no source template")
}

func TestCreateProject_TemplateProvider(t *testing.T) {
	s := newSkeleton()
	s.Templates = fakeTemplates{}

	dir := t.TempDir()
	_, _, err := s.Create("x-y", dir, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source template")

	content, err := os.ReadFile(filepath.Join(dir, "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Equal(t, "build x_y\n", string(content))
}

func TestRepairCompleteProjectIsUntouched(t *testing.T) {
	s := newSkeleton()
	_, dir, err := s.Create("demo", t.TempDir(), "", "")
	require.NoError(t, err)

	mainPath := filepath.Join(dir, "source_files", "main.cpp")
	require.NoError(t, os.WriteFile(mainPath, []byte("int main() {}\n"), 0644))
	before, err := os.ReadFile(meta.Path(dir))
	require.NoError(t, err)

	restored, err := s.Repair(dir)
	require.NoError(t, err)
	assert.Empty(t, restored)

	after, err := os.ReadFile(meta.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	content, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	assert.Equal(t, "int main() {}\n", string(content))
}

func TestRepairRestoresMissing(t *testing.T) {
	s := newSkeleton()
	_, dir, err := s.Create("demo", t.TempDir(), "", "")
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(dir, "source_files")))
	require.NoError(t, os.Remove(filepath.Join(dir, "bin")))
	require.NoError(t, os.Remove(filepath.Join(dir, "CMakeLists.txt")))

	restored, err := s.Repair(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"source_files", "bin", "CMakeLists.txt", filepath.Join("source_files", "main.cpp")}, restored)
	assert.FileExists(t, filepath.Join(dir, "CMakeLists.txt"))
	assert.FileExists(t, filepath.Join(dir, "source_files", "main.cpp"))
	assert.DirExists(t, filepath.Join(dir, "bin"))
}

func TestRepairMalformedMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(meta.Path(dir), []byte("{"), 0644))

	_, err := newSkeleton().Repair(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, meta.ErrSerialization)
}

func TestNewProjectData(t *testing.T) {
	data := init_proj.NewProjectData("my-cool-app", 17, "3.20")
	assert.Equal(t, "my-cool-app", data.ProjectName)
	assert.Equal(t, "my_cool_app", data.Identifier)
	assert.Equal(t, 17, data.CxxStandard)
}
