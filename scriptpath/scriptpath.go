// Package scriptpath locates script files across the three search roots: the
// directory holding the running executable, the user's scriptrun directory,
// and the install prefix's shared-data directory.
package scriptpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// UserDirName is the per-user directory under $HOME.
	UserDirName = ".scriptrun"
	// ShareRelPath is the shared-data directory relative to the executable.
	ShareRelPath = "../share/scriptrun"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("file not found")
	// ErrEmptyName is returned when no script name was given.
	ErrEmptyName = errors.New("no filename given")
)

// NotFoundError describes a failed search.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s (searched %s)", e.Name, strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Dirs holds the three search roots. An empty root is skipped.
type Dirs struct {
	Exec  string // directory of the running executable
	User  string // e.g. ~/.scriptrun
	Share string // e.g. <exec>/../share/scriptrun
}

// DefaultDirs derives the search roots from the executable location and the
// user's home directory.
func DefaultDirs() (Dirs, error) {
	var dirs Dirs

	exe, err := os.Executable()
	if err != nil {
		return dirs, fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dirs.Exec = filepath.Dir(exe)
	dirs.Share = filepath.Clean(filepath.Join(dirs.Exec, ShareRelPath))

	if home, err := os.UserHomeDir(); err == nil {
		dirs.User = filepath.Join(home, UserDirName)
	}

	return dirs, nil
}

// Resolver finds scripts under a fixed set of search roots.
type Resolver struct {
	dirs Dirs
}

// New returns a Resolver over dirs.
func New(dirs Dirs) *Resolver {
	return &Resolver{dirs: dirs}
}

// Dirs returns the search roots.
func (r *Resolver) Dirs() Dirs {
	return r.dirs
}

// Resolve returns the absolute path of the script called name, adding ext when
// the name does not already carry it. The name is tried as given first
// (absolute, or relative to the working directory), then under subdir of the
// user, executable and shared-data roots, in that order.
func (r *Resolver) Resolve(subdir, name, ext string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	filename := name
	if !strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
		filename += ext
	}

	candidates := []string{filename}
	if !filepath.IsAbs(filename) {
		for _, root := range []string{r.dirs.User, r.dirs.Exec, r.dirs.Share} {
			if root == "" {
				continue
			}
			candidates = append(candidates, filepath.Join(root, subdir, filename))
		}
	}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", c, err)
		}
		return abs, nil
	}

	return "", &NotFoundError{Name: filename, Searched: candidates}
}

// SearchPath returns subdir under each root in precedence order: executable,
// user, shared data. Roots that are unset are left out.
func (r *Resolver) SearchPath(subdir string) []string {
	var paths []string
	for _, root := range r.Roots(subdir) {
		paths = append(paths, root.Path)
	}
	return paths
}

// Root is one search directory with the class of root it came from:
// "exec", "user" or "share".
type Root struct {
	Class string
	Path  string
}

// Roots is SearchPath with each directory labelled by its class.
func (r *Resolver) Roots(subdir string) []Root {
	var roots []Root
	for _, root := range []Root{
		{"exec", r.dirs.Exec},
		{"user", r.dirs.User},
		{"share", r.dirs.Share},
	} {
		if root.Path == "" {
			continue
		}
		roots = append(roots, Root{Class: root.Class, Path: filepath.Join(root.Path, subdir)})
	}
	return roots
}

// Group is the listing of one search directory.
type Group struct {
	Dir   string
	Files []string
}

// List enumerates the files ending in ext (ignoring case) under subdir of each
// root that exists. Files are sorted by name.
func (r *Resolver) List(subdir, ext string) ([]Group, error) {
	var groups []Group
	seen := make(map[string]bool)

	for _, dir := range r.SearchPath(subdir) {
		if seen[dir] {
			continue
		}
		seen[dir] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}

		var files []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.HasSuffix(strings.ToLower(e.Name()), strings.ToLower(ext)) {
				files = append(files, e.Name())
			}
		}
		slices.Sort(files)
		groups = append(groups, Group{Dir: dir, Files: files})
	}

	return groups, nil
}
