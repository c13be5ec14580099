// Package maker converts declarative testcase and testsuite documents into
// standalone pytest files.
//
// Generation is reference-driven: a testcase may reference other testcase
// documents, which are generated first so the resulting artifact can import
// their classes. A GenerationContext threads the per-run dedup cache through
// the recursive call chain; each run owns its own context, so repeated runs
// (and tests) never leak state into each other.
package maker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/loader"
	"github.com/teranos/pytestgen/logger"
	"github.com/teranos/pytestgen/parser"
	"github.com/teranos/pytestgen/testcase"
	"github.com/teranos/pytestgen/version"
)

// Maker drives generation runs.
type Maker struct {
	// Reporter receives non-fatal failures (formatter errors).
	Reporter ErrorReporter

	// SkipFormat disables the external formatter invocation.
	SkipFormat bool
}

// New returns a Maker with the default log-only error reporter.
func New() *Maker {
	return &Maker{Reporter: logReporter{}}
}

// Make generates pytest files for the given file or directory paths and
// returns the ordered set of artifact paths: files discovered during folder
// scanning first, then newly generated top-level artifacts. Referenced
// testcases are generated but pulled in via import, so they never appear in
// the returned set.
func (m *Maker) Make(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	ctx := newGenerationContext()
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Wrapf(err, "absolutize tests path %s", path)
		}
		if err := ctx.makePath(abs, false); err != nil {
			return nil, err
		}
	}

	for _, artifact := range ctx.rootArtifacts {
		ctx.addPytestFile(artifact)
	}

	files := ctx.pytestFiles
	if !m.SkipFormat {
		formatArtifacts(files, m.Reporter)
	}
	return files, nil
}

// Make is a convenience wrapper using a default Maker.
func Make(paths []string) ([]string, error) {
	return New().Make(paths)
}

// GenerationContext carries the mutable state of one generation run.
type GenerationContext struct {
	// generated memoizes artifact paths already produced, breaking repeated
	// reference edges: a target path is generated at most once per run.
	generated map[string]bool

	// inProgress marks artifact paths currently being generated; revisiting
	// one means the reference graph is cyclic.
	inProgress map[string]bool

	// rootArtifacts collects top-level (non-referenced) artifacts in
	// generation order.
	rootArtifacts []string

	// pytestFiles is the ordered result set: artifacts discovered verbatim
	// during folder scanning, merged with rootArtifacts when the run ends.
	pytestFiles []string
	pytestSeen  map[string]bool
}

func newGenerationContext() *GenerationContext {
	return &GenerationContext{
		generated:  map[string]bool{},
		inProgress: map[string]bool{},
		pytestSeen: map[string]bool{},
	}
}

func (ctx *GenerationContext) addPytestFile(path string) {
	if ctx.pytestSeen[path] {
		return
	}
	ctx.pytestSeen[path] = true
	ctx.pytestFiles = append(ctx.pytestFiles, path)
}

// makePath generates artifacts for one testcase/testsuite/folder path.
// Inside folder or reference-driven processing, per-file errors are logged
// and skipped; a directly targeted single document propagates its errors.
func (ctx *GenerationContext) makePath(testsPath string, referenced bool) error {
	var files []string
	batch := referenced
	switch {
	case isDir(testsPath):
		batch = true
		found, err := loader.LoadFolderFiles(testsPath)
		if err != nil {
			return err
		}
		files = found
	case isFile(testsPath):
		files = []string{testsPath}
	default:
		return errors.Mark(
			errors.Newf("invalid tests path: %s", testsPath),
			errors.ErrTestCaseNotFound,
		)
	}

	for _, file := range files {
		if strings.HasSuffix(file, loader.PytestFileSuffix) {
			// an already-generated artifact, keep it in the result set
			ctx.addPytestFile(file)
			continue
		}

		raw, err := loader.LoadTestFile(file)
		if err != nil {
			if errors.IsSkippable(err) {
				logger.Warnf("%v", err)
				continue
			}
			return err
		}

		// legacy single-request API document
		if _, isAPIDoc := raw["request"]; isAPIDoc {
			raw = testcase.EnsureTestCaseV3API(raw)
		}
		injectConfigPath(raw, file)

		switch {
		case raw["teststeps"] != nil:
			err = ctx.makeRawTestCase(raw, referenced)
		case raw["testcases"] != nil:
			err = ctx.makeRawTestSuite(raw)
		default:
			logger.Warnf("skip invalid testcase/testsuite file: %s", file)
			continue
		}
		if err != nil {
			if batch && errors.IsFormatError(err) {
				logger.Warnf("skip %s: %v", file, err)
				continue
			}
			return err
		}
	}
	return nil
}

func (ctx *GenerationContext) makeRawTestCase(raw map[string]interface{}, referenced bool) error {
	tc, err := loader.LoadTestCase(testcase.EnsureTestCaseV3(raw))
	if err != nil {
		return err
	}
	_, err = ctx.makeTestCase(tc, "", referenced)
	return err
}

func (ctx *GenerationContext) makeRawTestSuite(raw map[string]interface{}) error {
	ts, err := loader.LoadTestSuite(raw)
	if err != nil {
		return err
	}
	return ctx.makeTestSuite(ts)
}

func injectConfigPath(raw map[string]interface{}, path string) {
	config, _ := raw["config"].(map[string]interface{})
	if config == nil {
		config = map[string]interface{}{}
		raw["config"] = config
	}
	config["path"] = path
}

// makeTestCase generates one pytest artifact for a validated testcase.
// dirPath, when set, redirects the artifact into that directory (suite
// expansion). Referenced testcases enter the dedup cache but not the
// top-level result set.
func (ctx *GenerationContext) makeTestCase(tc *testcase.TCase, dirPath string, referenced bool) (string, error) {
	casePath, err := ensureAbsolute(tc.Config.Path)
	if err != nil {
		return "", err
	}
	logger.Infof("start to make testcase: %s", casePath)

	pytestPath, clsName, err := ConvertTestCasePath(casePath)
	if err != nil {
		return "", err
	}
	if dirPath != "" {
		pytestPath = filepath.Join(dirPath, filepath.Base(pytestPath))
	}

	if ctx.generated[pytestPath] {
		return pytestPath, nil
	}
	if ctx.inProgress[pytestPath] {
		return "", errors.Mark(
			errors.Newf("cyclic reference detected while generating %s", pytestPath),
			errors.ErrCyclicReference,
		)
	}
	ctx.inProgress[pytestPath] = true
	defer delete(ctx.inProgress, pytestPath)

	tc.Config.Path = ensureRelative(pytestPath)
	if err := resolveConfigVariables(&tc.Config, casePath); err != nil {
		return "", err
	}

	imports, err := ctx.prepareReferences(tc)
	if err != nil {
		return "", err
	}

	stepChains := make([]string, 0, len(tc.TestSteps))
	for i := range tc.TestSteps {
		chainText, err := makeTeststepChain(&tc.TestSteps[i])
		if err != nil {
			return "", err
		}
		stepChains = append(stepChains, chainText)
	}

	content, err := renderTestCase(templateData{
		Version:      version.Version,
		TestCasePath: ensureRelative(casePath),
		ClassName:    "TestCase" + clsName,
		ImportsList:  imports,
		ConfigChain:  makeConfigChain(&tc.Config),
		StepChains:   stepChains,
	})
	if err != nil {
		return "", err
	}

	if err := writeArtifact(pytestPath, content); err != nil {
		return "", err
	}
	if err := ensureTestCaseModule(pytestPath); err != nil {
		return "", err
	}
	logger.Infof("generated testcase: %s", pytestPath)

	ctx.generated[pytestPath] = true
	if !referenced {
		ctx.rootArtifacts = append(ctx.rootArtifacts, pytestPath)
	}
	return pytestPath, nil
}

// prepareReferences generates every referenced testcase first, rewrites the
// reference steps to the generated class identifiers and returns the import
// statements binding those identifiers.
func (ctx *GenerationContext) prepareReferences(tc *testcase.TCase) ([]string, error) {
	var imports []string
	for i := range tc.TestSteps {
		step := &tc.TestSteps[i]
		if !step.IsReferenceStep() {
			continue
		}

		refPath, err := ensureAbsolute(step.TestCase)
		if err != nil {
			return nil, err
		}
		if err := ctx.makePath(refPath, true); err != nil {
			return nil, err
		}

		refPytestPath, refClsName, err := ConvertTestCasePath(refPath)
		if err != nil {
			return nil, err
		}
		step.TestCase = refClsName

		module := strings.TrimSuffix(ensureRelative(refPytestPath), ".py")
		module = strings.ReplaceAll(module, string(os.PathSeparator), ".")
		imports = append(imports,
			fmt.Sprintf("from %s import TestCase%s as %s", module, refClsName, refClsName))
	}
	return imports, nil
}

// resolveConfigVariables resolves a variables block given as a function
// expression, e.g. variables: ${get_variables()}, into a concrete mapping.
func resolveConfigVariables(config *testcase.Config, casePath string) error {
	expr, ok := config.Variables.(string)
	if !ok {
		if config.Variables == nil {
			config.Variables = map[string]interface{}{}
		}
		return nil
	}

	meta, err := loader.LoadProjectMeta(casePath)
	if err != nil {
		return err
	}
	value, err := parser.ParseString(expr, nil, meta.Functions)
	if err != nil {
		return errors.Wrapf(err, "resolve config variables of %s", casePath)
	}
	variables, ok := value.(map[string]interface{})
	if !ok {
		return errors.Mark(
			errors.Newf("config variables expression %q did not resolve to a mapping", expr),
			errors.ErrTestCaseFormat,
		)
	}
	config.Variables = variables
	return nil
}
