package conan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuralexjig/jtool/meta"
	orderedmap "github.com/pb33f/ordered-map/v2"
)

// DeclarationFile is the file conan install reads a project's requirements
// from.
const DeclarationFile = "conanfile.txt"

// Declarations renders one name/version line per conancenter dependency.
//
// A name declared more than once keeps its first position and takes the
// version of its last declaration.
func Declarations(deps []meta.Dependency) string {
	versions := orderedmap.New[string, string]()
	for _, dep := range deps {
		if dep.Remote != meta.RemoteConanCenter {
			continue
		}
		versions.Set(dep.Name, dep.Version)
	}
	var b strings.Builder
	for pair := versions.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(&b, "%s/%s\n", pair.Key, pair.Value)
	}
	return b.String()
}

// WriteDeclarations overwrites the declaration file in dir.
func WriteDeclarations(dir string, deps []meta.Dependency) error {
	path := filepath.Join(dir, DeclarationFile)
	if err := os.WriteFile(path, []byte(Declarations(deps)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", DeclarationFile, err)
	}
	return nil
}
