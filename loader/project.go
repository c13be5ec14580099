package loader

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/logger"
	"github.com/teranos/pytestgen/parser"
)

// Project root marker files, checked in order while ascending from a
// document's directory.
var projectMarkers = []string{".pytestgen.toml", "debugtalk.py"}

// Settings is the optional project-level configuration read from
// .pytestgen.toml at the project root.
type Settings struct {
	// Formatter is the command line used to format generated artifacts
	// (default "black").
	Formatter string `mapstructure:"formatter"`

	// Env holds values exposed to document expressions via ${environ(NAME)}.
	Env map[string]string `mapstructure:"env"`
}

// ProjectMeta describes the project a document belongs to.
type ProjectMeta struct {
	// RootDir is the project root: the nearest ancestor directory carrying a
	// project marker, falling back to the process working directory.
	RootDir string

	// Functions is the function table for expression resolution.
	Functions map[string]parser.Function

	// Settings are the parsed project settings.
	Settings Settings
}

var (
	projectMetaMu    sync.Mutex
	projectMetaCache = map[string]*ProjectMeta{}
)

// LoadProjectMeta locates and loads the project metadata for a document
// path. Results are memoized per root directory for the process lifetime.
func LoadProjectMeta(path string) (*ProjectMeta, error) {
	root, err := findProjectRoot(path)
	if err != nil {
		return nil, err
	}

	projectMetaMu.Lock()
	defer projectMetaMu.Unlock()
	if meta, ok := projectMetaCache[root]; ok {
		return meta, nil
	}

	meta := &ProjectMeta{
		RootDir:   root,
		Functions: parser.Builtins(),
	}
	if err := loadSettings(root, &meta.Settings); err != nil {
		return nil, err
	}
	if meta.Settings.Formatter == "" {
		meta.Settings.Formatter = "black"
	}
	for name, value := range meta.Settings.Env {
		if os.Getenv(name) == "" {
			os.Setenv(name, value) //nolint:errcheck
		}
	}

	projectMetaCache[root] = meta
	return meta, nil
}

// ResetProjectMetaCache clears the memoized metadata. Test helper.
func ResetProjectMetaCache() {
	projectMetaMu.Lock()
	defer projectMetaMu.Unlock()
	projectMetaCache = map[string]*ProjectMeta{}
}

func findProjectRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "absolutize %s", path)
	}

	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// No marker found: treat the working directory as the project root
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "get working directory")
	}
	logger.Debugw("no project marker found, using working directory", "path", path, "root", cwd)
	return cwd, nil
}

func loadSettings(root string, settings *Settings) error {
	configPath := filepath.Join(root, ".pytestgen.toml")
	if _, err := os.Stat(configPath); err != nil {
		return nil // settings are optional
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read project settings %s", configPath)
	}
	if err := v.Unmarshal(settings); err != nil {
		return errors.Wrapf(err, "parse project settings %s", configPath)
	}
	return nil
}
