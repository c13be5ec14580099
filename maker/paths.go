package maker

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/loader"
)

// ConvertTestCasePath derives the generated pytest path and class identifier
// for one document path. Directories pass through unchanged with an empty
// identifier: they are scanned, never generated as a single artifact.
//
//	testcases/19.json              -> testcases/T19_test.py, T19
//	request_with_variables.yml     -> request_with_variables_test.py, RequestWithVariables
func ConvertTestCasePath(testcasePath string) (string, string, error) {
	if isDir(testcasePath) {
		return testcasePath, "", nil
	}

	testcasePath = ensureFileName(testcasePath)
	base := filepath.Base(testcasePath)
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".json", ".yml", ".yaml", ".har":
	default:
		return "", "", errors.Mark(
			errors.Newf("testcase file should have .yaml/.yml/.json/.har suffix: %s", testcasePath),
			errors.ErrParams,
		)
	}

	rawName := strings.TrimSuffix(base, filepath.Ext(base))
	fileName := strings.NewReplacer(" ", "_", ".", "_", "-", "_").Replace(rawName)

	pytestPath := filepath.Join(filepath.Dir(testcasePath), fileName+loader.PytestFileSuffix)
	clsName := strings.ReplaceAll(titleCase(fileName), "_", "")
	return pytestPath, clsName, nil
}

// ensureFileName prefixes base names starting with a decimal digit so the
// derived identifier is lexically valid: testcases/19.json => testcases/T19.json
func ensureFileName(path string) string {
	base := filepath.Base(path)
	if base != "" && base[0] >= '0' && base[0] <= '9' {
		return filepath.Join(filepath.Dir(path), "T"+base)
	}
	return path
}

// titleCase capitalizes the first letter of every alpha run, lowercasing the
// rest: request_with_variables => Request_With_Variables
func titleCase(name string) string {
	runes := []rune(name)
	prevIsLetter := false
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if prevIsLetter {
				runes[i] = unicode.ToLower(r)
			} else {
				runes[i] = unicode.ToUpper(r)
			}
			prevIsLetter = true
		} else {
			prevIsLetter = false
		}
	}
	return string(runes)
}

// ensureAbsolute resolves a document path against its project root.
func ensureAbsolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	meta, err := loader.LoadProjectMeta(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(meta.RootDir, path), nil
}

// ensureRelative strips the working-directory prefix from an absolute path
// for embedding in generated source; relative paths pass through.
func ensureRelative(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
