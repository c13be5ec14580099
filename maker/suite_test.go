package maker

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suiteCaseDocument = `
config:
    name: original name
    variables:
        x: 2
        y: 3
teststeps:
-   name: s1
    request:
        method: GET
        url: /ping
`

func TestMakeTestSuite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "login.yml"), suiteCaseDocument)
	writeFile(t, filepath.Join(dir, "logout.yml"), suiteCaseDocument)

	suitePath := filepath.Join(dir, "smoke.suite.yml")
	writeFile(t, suitePath, fmt.Sprintf(`
config:
    name: smoke suite
    base_url: https://staging.example.com
    variables:
        x: 1
testcases:
-   name: login ok
    testcase: %s
-   name: logout ok
    testcase: %s
`, filepath.Join(dir, "login.yml"), filepath.Join(dir, "logout.yml")))

	files, err := newTestMaker().Make([]string{suitePath})
	require.NoError(t, err)

	// container directory named from the suite path, dots replaced
	suiteDir := filepath.Join(dir, "smoke_suite_yml")
	require.DirExists(t, suiteDir)
	assert.ElementsMatch(t, []string{
		filepath.Join(suiteDir, "login_test.py"),
		filepath.Join(suiteDir, "logout_test.py"),
	}, files)

	content, err := os.ReadFile(filepath.Join(suiteDir, "login_test.py"))
	require.NoError(t, err)
	source := string(content)

	// per-reference name override
	assert.Contains(t, source, `Config("login ok")`)
	// suite base_url override
	assert.Contains(t, source, `.base_url("https://staging.example.com")`)
	// suite wins on x, case-only y preserved
	assert.Contains(t, source, `.variables(**{'x': 1, 'y': 3})`)
}

func TestMakeTestSuiteVariablePrecedence(t *testing.T) {
	dir := t.TempDir()
	casePath := filepath.Join(dir, "case.yml")
	writeFile(t, casePath, `
config:
    name: case
teststeps:
-   name: s1
    request:
        method: GET
        url: /ping
`)

	suitePath := filepath.Join(dir, "prec.yml")
	writeFile(t, suitePath, fmt.Sprintf(`
config:
    name: precedence suite
    variables:
        x: 1
testcases:
-   name: with reference vars
    testcase: %s
    variables:
        x: 2
        y: 3
`, casePath))

	files, err := newTestMaker().Make([]string{suitePath})
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	// suite wins on conflict, reference-only keys preserved
	assert.Contains(t, string(content), `.variables(**{'x': 1, 'y': 3})`)
}

func TestMakeTestSuiteReferenceEntryBaseURL(t *testing.T) {
	dir := t.TempDir()
	casePath := filepath.Join(dir, "case.yml")
	writeFile(t, casePath, suiteCaseDocument)

	suitePath := filepath.Join(dir, "nourl.yml")
	writeFile(t, suitePath, fmt.Sprintf(`
config:
    name: suite without base_url
testcases:
-   name: ref with url
    testcase: %s
    base_url: https://ref.example.com
`, casePath))

	files, err := newTestMaker().Make([]string{suitePath})
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `.base_url("https://ref.example.com")`)
}

func TestMakeTestSuiteVerifyOverride(t *testing.T) {
	dir := t.TempDir()
	casePath := filepath.Join(dir, "case.yml")
	writeFile(t, casePath, suiteCaseDocument)

	suitePath := filepath.Join(dir, "verify.yml")
	writeFile(t, suitePath, fmt.Sprintf(`
config:
    name: verify suite
    verify: false
testcases:
-   name: no verify
    testcase: %s
`, casePath))

	files, err := newTestMaker().Make([]string{suitePath})
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `.verify(False)`)
}

func TestMakeTestSuiteMissingReferenceSkipped(t *testing.T) {
	dir := t.TempDir()
	casePath := filepath.Join(dir, "good.yml")
	writeFile(t, casePath, suiteCaseDocument)

	suitePath := filepath.Join(dir, "partial.yml")
	writeFile(t, suitePath, fmt.Sprintf(`
config:
    name: partial suite
testcases:
-   name: missing
    testcase: %s
-   name: present
    testcase: %s
`, filepath.Join(dir, "nope.yml"), casePath))

	files, err := newTestMaker().Make([]string{suitePath})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "good_test.py", filepath.Base(files[0]))
}
