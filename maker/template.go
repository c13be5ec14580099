package maker

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/teranos/pytestgen/errors"
)

// moduleMarkerContent is written to __init__.py files created alongside
// generated artifacts. Existing markers are never overwritten.
const moduleMarkerContent = "# NOTICE: Generated By pytestgen. DO NOT EDIT!\n"

var testcaseTemplate = template.Must(template.New("testcase").Parse(
	`# NOTICE: Generated By pytestgen v{{.Version}}
# FROM: {{.TestCasePath}}
{{if .ImportsList}}
import os
import sys

sys.path.insert(0, os.getcwd())
{{end}}
from httprunner import HttpRunner, Config, Step, RunRequest, RunTestCase
{{range .ImportsList}}
{{.}}
{{end}}

class {{.ClassName}}(HttpRunner):
    config = {{.ConfigChain}}

    teststeps = [
{{- range .StepChains}}
        {{.}},
{{- end}}
    ]


if __name__ == "__main__":
    {{.ClassName}}().test_start()
`))

type templateData struct {
	Version      string
	TestCasePath string
	ClassName    string
	ImportsList  []string
	ConfigChain  string
	StepChains   []string
}

// renderTestCase renders the complete artifact source for one testcase.
func renderTestCase(data templateData) (string, error) {
	var buf bytes.Buffer
	if err := testcaseTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "render testcase template")
	}
	return buf.String(), nil
}

// writeArtifact writes a rendered artifact, creating parent directories as
// needed. Writes are not transactional: a partial file on failure is left
// behind for the next run to overwrite.
func writeArtifact(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create artifact directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "write artifact %s", path)
	}
	return nil
}

// ensureTestCaseModule makes the artifact's directory a recognized module by
// creating __init__.py on demand.
func ensureTestCaseModule(artifactPath string) error {
	initFile := filepath.Join(filepath.Dir(artifactPath), "__init__.py")
	if isFile(initFile) {
		return nil
	}
	if err := os.WriteFile(initFile, []byte(moduleMarkerContent), 0o644); err != nil {
		return errors.Wrapf(err, "write module marker %s", initFile)
	}
	return nil
}
