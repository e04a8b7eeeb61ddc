package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"av3atool/internal/services"
)

// Requirement defines an external executable a flow relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// Locator resolves executables against configured search directories, the
// working directory, and PATH, in that order.
type Locator struct {
	SearchDirs []string
	WorkDir    string
	goos       string
}

// NewLocator constructs a locator rooted at the current working directory.
func NewLocator(searchDirs []string) *Locator {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return &Locator{SearchDirs: searchDirs, WorkDir: wd, goos: runtime.GOOS}
}

// platformName returns the on-disk executable name for base on goos.
func platformName(goos, base string) string {
	base = strings.TrimSpace(base)
	if goos != "windows" || base == "" {
		return base
	}
	if strings.EqualFold(filepath.Ext(base), ".exe") {
		return base
	}
	return base + ".exe"
}

// Locate returns the absolute path of command. Commands containing a path
// separator are checked as given; bare names are searched.
func (l *Locator) Locate(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", errors.New("command not configured")
	}
	goos := l.goos
	if goos == "" {
		goos = runtime.GOOS
	}

	if strings.ContainsAny(command, `/\`) {
		for _, candidate := range []string{command, platformName(goos, command)} {
			if isExecutableFile(candidate, goos) {
				return filepath.Abs(candidate)
			}
		}
		return "", fmt.Errorf("binary %q not found", command)
	}

	name := platformName(goos, command)
	dirs := append([]string{}, l.SearchDirs...)
	if l.WorkDir != "" {
		dirs = append(dirs, l.WorkDir)
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if isExecutableFile(candidate, goos) {
			return candidate, nil
		}
	}

	if resolved, err := exec.LookPath(name); err == nil {
		if abs, absErr := filepath.Abs(resolved); absErr == nil {
			return abs, nil
		}
		return resolved, nil
	}
	return "", fmt.Errorf("binary %q not found", name)
}

// CheckBinaries evaluates the provided requirements and reports availability.
func (l *Locator) CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		path, err := l.Locate(cmd)
		if err != nil {
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// Require resolves every requirement and fails on the first mandatory one
// that is absent. The returned map is keyed by requirement name.
func (l *Locator) Require(requirements []Requirement) (map[string]string, []Status, error) {
	statuses := l.CheckBinaries(requirements)
	paths := make(map[string]string, len(statuses))
	for _, status := range statuses {
		if status.Available {
			paths[status.Name] = status.Path
			continue
		}
		if status.Optional {
			continue
		}
		return paths, statuses, services.Wrap(
			services.ErrMissingExecutable, "locate", "",
			fmt.Sprintf("%s not found: %s", status.Name, status.Command), nil)
	}
	return paths, statuses, nil
}

func isExecutableFile(path, goos string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if goos == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
