// Package loader reads declarative test documents off disk.
//
// Documents are YAML, JSON or legacy HAR files; every loaded document is a
// raw mapping first, upgraded for v2 compatibility by the testcase package,
// then decoded into its typed shape at the boundary.
package loader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/testcase"
)

// PytestFileSuffix marks already-generated artifacts found during folder
// scanning; they are collected, never re-processed.
const PytestFileSuffix = "_test.py"

var documentExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".har":  true,
}

// IsDocumentFile reports whether path has a recognized document extension.
func IsDocumentFile(path string) bool {
	return documentExtensions[strings.ToLower(filepath.Ext(path))]
}

// LoadFolderFiles recursively collects document files and already-generated
// pytest files under dir, sorted for deterministic generation order.
func LoadFolderFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// generated module markers live next to artifacts, skip hidden dirs
			if name := info.Name(); strings.HasPrefix(name, ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDocumentFile(path) || strings.HasSuffix(path, PytestFileSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan folder %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// LoadTestFile loads one document file into a raw mapping.
func LoadTestFile(path string) (map[string]interface{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(errors.Newf("test file not found: %s", path), errors.ErrFileNotFound)
		}
		return nil, errors.Wrapf(err, "read test file %s", path)
	}

	raw := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, errors.Mark(
				errors.Wrapf(err, "invalid yaml file %s", path),
				errors.ErrFileFormat,
			)
		}
	case ".json":
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, errors.Mark(
				errors.Wrapf(err, "invalid json file %s", path),
				errors.ErrFileFormat,
			)
		}
	case ".har":
		return loadHAR(content, path)
	default:
		return nil, errors.Mark(
			errors.Newf("unsupported test file extension: %s", path),
			errors.ErrFileFormat,
		)
	}
	return raw, nil
}

// LoadTestCase decodes and validates a raw document as a testcase.
func LoadTestCase(raw map[string]interface{}) (*testcase.TCase, error) {
	return testcase.ToTestCase(raw)
}

// LoadTestSuite decodes and validates a raw document as a testsuite.
func LoadTestSuite(raw map[string]interface{}) (*testcase.TSuite, error) {
	return testcase.ToTestSuite(raw)
}
