package confkit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const maxWalkDepth = 8

var errRootNotFound = errors.New("confkit: project root not found")

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

func isRoot(dir string) bool {
	return fileExists(filepath.Join(dir, "go.mod")) || fileExists(filepath.Join(dir, ".git"))
}

// walkUp calls visit for start and each parent directory until visit returns
// true, the filesystem root is reached or maxWalkDepth levels were seen.
func walkUp(start string, visit func(dir string) bool) bool {
	dir := start
	for i := 0; i < maxWalkDepth; i++ {
		if visit(dir) {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
	return false
}

func sourceDir() string {
	if _, file, _, ok := runtime.Caller(0); ok {
		return filepath.Dir(file)
	}
	return ""
}

// ProjectRoot locates the directory holding go.mod or .git, searching from
// the working directory first and from this package's source location second.
func ProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return ".", fmt.Errorf("getwd: %w", err)
	}
	for _, start := range []string{wd, sourceDir()} {
		if start == "" {
			continue
		}
		var root string
		if walkUp(start, func(dir string) bool {
			if isRoot(dir) {
				root = dir
				return true
			}
			return false
		}) {
			return root, nil
		}
	}
	return wd, errRootNotFound
}

// ProjectPath joins the project root with rel, falling back to the working
// directory when no root is found.
func ProjectPath(rel string) string {
	root, _ := ProjectRoot()
	return filepath.Join(root, rel)
}
