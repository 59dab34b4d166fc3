package lint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNoModule   = errors.New("no go.mod found")
	ErrNoPackages = errors.New("no Go packages among the given files")
	ErrNoGoFiles  = errors.New("no Go files found")
)

// ModuleRoot walks up from dir to the nearest directory holding go.mod.
func ModuleRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrNoModule, dir)
		}
		dir = parent
	}
}

// ProjectRoot returns the module root containing file, or the file's own
// directory when it is not inside a module.
func ProjectRoot(file string) (string, error) {
	if !filepath.IsAbs(file) {
		return "", fmt.Errorf("path must be absolute: %s", file)
	}
	dir := filepath.Dir(file)
	if root, err := ModuleRoot(dir); err == nil {
		return root, nil
	}
	return dir, nil
}

// PackagesByProject groups the package directories of files by project
// root. Packages are "./"-relative patterns ("." for the root), sorted and
// without duplicates. Empty entries, missing files and non-Go files are
// skipped.
func PackagesByProject(files []string) (map[string][]string, error) {
	seen := make(map[string]map[string]bool)
	for _, file := range files {
		if file == "" {
			continue
		}
		if !filepath.IsAbs(file) {
			return nil, fmt.Errorf("path must be absolute: %s", file)
		}
		if !strings.HasSuffix(file, ".go") {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			continue
		}

		root, err := ProjectRoot(file)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, filepath.Dir(file))
		if err != nil {
			continue
		}
		if seen[root] == nil {
			seen[root] = make(map[string]bool)
		}
		seen[root][packagePattern(rel)] = true
	}

	if len(seen) == 0 {
		return nil, ErrNoPackages
	}
	result := make(map[string][]string, len(seen))
	for root, pkgs := range seen {
		list := make([]string, 0, len(pkgs))
		for pkg := range pkgs {
			list = append(list, pkg)
		}
		sort.Strings(list)
		result[root] = list
	}
	return result, nil
}

func packagePattern(rel string) string {
	rel = filepath.ToSlash(rel)
	if rel == "" || rel == "." {
		return "."
	}
	if strings.HasPrefix(rel, "./") {
		return rel
	}
	return "./" + rel
}

// VendorMode reports whether golangci-lint should resolve dependencies from
// vendor/. Only a .gitignore entry ignoring the whole vendor directory
// selects module mode; a missing .gitignore means vendor mode.
func VendorMode(projectRoot string) bool {
	data, err := os.ReadFile(filepath.Join(projectRoot, ".gitignore"))
	if err != nil {
		return true
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.TrimPrefix(strings.TrimSuffix(line, "/"), "/") == "vendor" {
			return false
		}
	}
	return true
}

// GoFiles lists the non-test, non-generated Go files below projectRoot,
// skipping vendor and hidden directories.
func GoFiles(projectRoot string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(projectRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != projectRoot && (name == "vendor" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") ||
			strings.HasSuffix(name, ".pb.go") || strings.HasSuffix(name, ".gen.go") {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		files = append(files, abs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", projectRoot, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoGoFiles, projectRoot)
	}
	return files, nil
}
