package scanner

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/benford/pkg/config"
)

// Entry is one filesystem entry found beneath the scan root.
type Entry struct {
	// Path is the root joined with the entry's relative path.
	Path string
	// Rel is the slash-separated path relative to the root.
	Rel     string
	IsDir   bool
	Regular bool
}

// String returns the entry path.
func (e Entry) String() string {
	return e.Path
}

// RootError reports a scan root that does not exist or cannot be accessed.
type RootError struct {
	Path string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("cannot access scan root %s: %v", e.Path, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// Scanner enumerates the entries of a directory tree.
type Scanner struct {
	exclude config.ExcludeConfig
}

// NewScanner creates a new file scanner. Nothing is excluded unless the
// config enables gitignore matching or lists patterns.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{exclude: cfg.Exclude}
}

// Resolve checks that root exists and returns its absolute path with
// symlinks evaluated.
func (s *Scanner) Resolve(root string) (string, error) {
	if _, err := os.Stat(root); err != nil {
		return "", &RootError{Path: root, Err: err}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Path: root, Err: err}
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &RootError{Path: root, Err: err}
	}
	return absRoot, nil
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// excluder reports whether a path, split into its root-relative parts,
// is excluded.
type excluder func(parts []string, isDir bool) bool

// buildExcluder builds the exclusion check for root, or nil when nothing is
// excluded. Config patterns are anchored at the scan root and .gitignore
// patterns at the repository root.
func (s *Scanner) buildExcluder(root string) excluder {
	var checks []excluder

	if len(s.exclude.Patterns) > 0 {
		patterns := make([]gitignore.Pattern, 0, len(s.exclude.Patterns))
		for _, pattern := range s.exclude.Patterns {
			patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
		}
		m := gitignore.NewMatcher(patterns)
		checks = append(checks, m.Match)
	}

	if s.exclude.Gitignore {
		gitRoot := findGitRoot(root)
		if gitRoot == "" {
			gitRoot = root
		}
		// ReadPatterns walks every .gitignore below gitRoot. The repository
		// metadata itself is never part of the project.
		if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
			gitPatterns = append(gitPatterns, gitignore.ParsePattern(".git", nil))
			m := gitignore.NewMatcher(gitPatterns)
			prefix := splitRel(gitRoot, root)
			checks = append(checks, func(parts []string, isDir bool) bool {
				full := make([]string, 0, len(prefix)+len(parts))
				full = append(append(full, prefix...), parts...)
				return m.Match(full, isDir)
			})
		}
	}

	if len(checks) == 0 {
		return nil
	}
	return func(parts []string, isDir bool) bool {
		for _, check := range checks {
			if check(parts, isDir) {
				return true
			}
		}
		return false
	}
}

// splitRel returns the parts of path relative to base, or nil when path is
// base itself.
func splitRel(base, path string) []string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." {
		return nil
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

// Entries yields every entry beneath root, files and directories
// intermixed, without root itself. Entries that cannot be read are skipped
// and unreadable directories are not descended.
func (s *Scanner) Entries(root string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		absRoot, err := s.Resolve(root)
		if err != nil {
			return
		}
		excluded := s.buildExcluder(absRoot)

		// Walk the resolved root: WalkDir does not descend into a root
		// that is itself a symlink.
		_ = filepath.WalkDir(absRoot, func(walked string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && walked != absRoot {
					return filepath.SkipDir
				}
				return nil
			}
			if walked == absRoot {
				return nil
			}

			rel, _ := filepath.Rel(absRoot, walked)
			entry := Entry{
				Path:    filepath.Join(root, rel),
				Rel:     filepath.ToSlash(rel),
				IsDir:   d.IsDir(),
				Regular: d.Type().IsRegular(),
			}

			// Symlinks are followed only when they stay inside the root.
			if d.Type()&fs.ModeSymlink != 0 {
				resolved, err := filepath.EvalSymlinks(walked)
				if err != nil || !isWithinRoot(resolved, absRoot) {
					return nil
				}
				info, err := os.Stat(resolved)
				if err != nil {
					return nil
				}
				entry.Regular = info.Mode().IsRegular()
			}

			if excluded != nil && excluded(strings.Split(entry.Rel, "/"), entry.IsDir) {
				if entry.IsDir {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(entry) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// Files collects the regular files yielded by Entries.
func (s *Scanner) Files(root string) []string {
	var files []string
	for e := range s.Entries(root) {
		if e.Regular {
			files = append(files, e.Path)
		}
	}
	return files
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}
