package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/pytestgen/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadTestFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yml")
	writeFile(t, path, `
config:
    name: demo
teststeps:
-   name: get ping
    request:
        method: GET
        url: /ping
`)

	raw, err := LoadTestFile(path)
	require.NoError(t, err)

	config := raw["config"].(map[string]interface{})
	assert.Equal(t, "demo", config["name"])
	assert.Len(t, raw["teststeps"], 1)
}

func TestLoadTestFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.json")
	writeFile(t, path, `{
  "config": {"name": "demo"},
  "teststeps": [{"name": "s1", "request": {"method": "GET", "url": "/ping"}}]
}`)

	raw, err := LoadTestFile(path)
	require.NoError(t, err)
	assert.Contains(t, raw, "teststeps")
}

func TestLoadTestFileNotFound(t *testing.T) {
	_, err := LoadTestFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFileNotFound))
}

func TestLoadTestFileMalformed(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yml")
	writeFile(t, badYAML, "config: [unclosed")
	_, err := LoadTestFile(badYAML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFileFormat))

	badJSON := filepath.Join(dir, "bad.json")
	writeFile(t, badJSON, "{not json")
	_, err = LoadTestFile(badJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFileFormat))
}

func TestLoadTestFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.txt")
	writeFile(t, path, "whatever")

	_, err := LoadTestFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFileFormat))
}

func TestLoadFolderFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yml"), "config: {}")
	writeFile(t, filepath.Join(dir, "a.json"), "{}")
	writeFile(t, filepath.Join(dir, "nested", "c.yaml"), "config: {}")
	writeFile(t, filepath.Join(dir, "nested", "c_test.py"), "# generated")
	writeFile(t, filepath.Join(dir, "README.md"), "docs")
	writeFile(t, filepath.Join(dir, ".hidden", "d.yml"), "config: {}")

	files, err := LoadFolderFiles(dir)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "c.yaml"),
		filepath.Join(dir, "nested", "c_test.py"),
	}
	assert.Equal(t, want, files)
}

func TestLoadHAR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.har")
	writeFile(t, path, `{
  "log": {
    "entries": [
      {
        "request": {
          "method": "POST",
          "url": "https://httpbin.org/post",
          "headers": [
            {"name": "Content-Type", "value": "application/json"},
            {"name": "Host", "value": "httpbin.org"}
          ],
          "postData": {"mimeType": "application/json", "text": "{\"a\": 1}"}
        },
        "response": {"status": 200}
      }
    ]
  }
}`)

	raw, err := LoadTestFile(path)
	require.NoError(t, err)

	tc, err := LoadTestCase(raw)
	require.NoError(t, err)
	require.Len(t, tc.TestSteps, 1)

	step := tc.TestSteps[0]
	require.True(t, step.IsRequestStep())
	assert.Equal(t, "POST", step.Request.Method)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, step.Request.JSON)
	// browser-injected Host header is dropped
	assert.Equal(t, map[string]string{"Content-Type": "application/json"}, step.Request.Headers)
	require.Len(t, step.Validate, 1)
}

func TestLoadHAREmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.har")
	writeFile(t, path, `{"log": {"entries": []}}`)

	_, err := LoadTestFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFileFormat))
}
