package maker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/loader"
	"github.com/teranos/pytestgen/logger"
	"github.com/teranos/pytestgen/parser"
	"github.com/teranos/pytestgen/testcase"
)

// makeTestSuite expands a testsuite document into one generated testcase per
// reference. Generated cases land in a container directory named from the
// suite file (dots replaced by underscores), each carrying the suite's
// override-merged configuration.
func (ctx *GenerationContext) makeTestSuite(ts *testcase.TSuite) error {
	suitePath := ts.Config.Path
	logger.Infof("start to make testsuite: %s", suitePath)

	suiteVariables, err := resolveSuiteVariables(&ts.Config, suitePath)
	if err != nil {
		return err
	}

	suiteDir := filepath.Join(
		filepath.Dir(suitePath),
		strings.ReplaceAll(filepath.Base(suitePath), ".", "_"),
	)
	if err := os.MkdirAll(suiteDir, 0o755); err != nil {
		return errors.Wrapf(err, "create testsuite directory %s", suiteDir)
	}

	for i := range ts.TestCases {
		ref := &ts.TestCases[i]

		casePath, err := ensureAbsolute(ref.TestCase)
		if err != nil {
			return err
		}
		raw, err := loader.LoadTestFile(casePath)
		if err != nil {
			if errors.IsSkippable(err) {
				logger.Warnf("skip testsuite reference %s: %v", ref.TestCase, err)
				continue
			}
			return err
		}
		if _, isAPIDoc := raw["request"]; isAPIDoc {
			raw = testcase.EnsureTestCaseV3API(raw)
		}
		raw = testcase.EnsureTestCaseV3(raw)

		overrideSuiteConfig(raw, ts, ref, casePath, suiteVariables)

		tc, err := loader.LoadTestCase(raw)
		if err != nil {
			if errors.IsFormatError(err) {
				logger.Warnf("skip testsuite reference %s: %v", ref.TestCase, err)
				continue
			}
			return err
		}
		if _, err := ctx.makeTestCase(tc, suiteDir, false); err != nil {
			if errors.IsFormatError(err) {
				logger.Warnf("skip testsuite reference %s: %v", ref.TestCase, err)
				continue
			}
			return err
		}
	}
	return nil
}

// overrideSuiteConfig applies the suite-level overrides to one referenced
// testcase document: forced path, per-reference name, base_url (the suite
// wins over the reference entry), verify, and the variable merge where the
// reference entry overrides the case file and the suite overrides both.
func overrideSuiteConfig(raw map[string]interface{}, ts *testcase.TSuite, ref *testcase.TCaseRef, casePath string, suiteVariables map[string]interface{}) {
	config, _ := raw["config"].(map[string]interface{})
	if config == nil {
		config = map[string]interface{}{}
		raw["config"] = config
	}

	config["path"] = casePath
	config["name"] = ref.Name

	baseURL := ts.Config.BaseURL
	if baseURL == "" {
		baseURL = ref.BaseURL
	}
	if baseURL != "" {
		config["base_url"] = baseURL
	}

	if ts.Config.Verify != nil {
		config["verify"] = *ts.Config.Verify
	}

	caseVariables, _ := config["variables"].(map[string]interface{})
	merged := make(map[string]interface{}, len(caseVariables)+len(ref.Variables)+len(suiteVariables))
	for key, value := range caseVariables {
		merged[key] = value
	}
	for key, value := range ref.Variables {
		merged[key] = value
	}
	for key, value := range suiteVariables {
		merged[key] = value
	}
	config["variables"] = merged
}

// resolveSuiteVariables resolves the suite-level variables block, which may
// be a function expression like the testcase one.
func resolveSuiteVariables(config *testcase.Config, suitePath string) (map[string]interface{}, error) {
	expr, ok := config.Variables.(string)
	if !ok {
		return config.VariablesMap(), nil
	}

	meta, err := loader.LoadProjectMeta(suitePath)
	if err != nil {
		return nil, err
	}
	value, err := parser.ParseString(expr, nil, meta.Functions)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve testsuite variables of %s", suitePath)
	}
	variables, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.Mark(
			errors.Newf("testsuite variables expression %q did not resolve to a mapping", expr),
			errors.ErrTestSuiteFormat,
		)
	}
	return variables, nil
}
