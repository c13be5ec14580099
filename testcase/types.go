// Package testcase defines the document model for declarative API tests.
//
// Documents arrive as raw YAML/JSON mappings from the loader and are decoded
// into the typed shapes here at the document boundary. A test step is a
// tagged union: it either issues a request directly or references another
// testcase document, discriminated by which field is populated.
package testcase

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/teranos/pytestgen/errors"
)

// Config is the testcase-level configuration block.
//
// Variables may hold either a concrete mapping or an unresolved function
// expression string such as "${get_variables()}"; the maker resolves it to a
// mapping before serialization.
type Config struct {
	Name      string      `mapstructure:"name" json:"name" yaml:"name"`
	Variables interface{} `mapstructure:"variables,omitempty" json:"variables,omitempty" yaml:"variables,omitempty"`
	BaseURL   string      `mapstructure:"base_url,omitempty" json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Verify    *bool       `mapstructure:"verify,omitempty" json:"verify,omitempty" yaml:"verify,omitempty"`
	Export    []string    `mapstructure:"export,omitempty" json:"export,omitempty" yaml:"export,omitempty"`
	Path      string      `mapstructure:"path,omitempty" json:"path,omitempty" yaml:"path,omitempty"`
}

// VariablesMap returns the variables block as a concrete mapping.
// Returns nil when variables are absent or still an unresolved expression.
func (c *Config) VariablesMap() map[string]interface{} {
	m, _ := c.Variables.(map[string]interface{})
	return m
}

// Request describes one HTTP request issued by a request step.
type Request struct {
	Method         string                 `mapstructure:"method" json:"method" yaml:"method"`
	URL            string                 `mapstructure:"url" json:"url" yaml:"url"`
	Params         map[string]interface{} `mapstructure:"params,omitempty" json:"params,omitempty" yaml:"params,omitempty"`
	Headers        map[string]string      `mapstructure:"headers,omitempty" json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies        map[string]string      `mapstructure:"cookies,omitempty" json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Data           interface{}            `mapstructure:"data,omitempty" json:"data,omitempty" yaml:"data,omitempty"`
	JSON           interface{}            `mapstructure:"json,omitempty" json:"json,omitempty" yaml:"json,omitempty"`
	Timeout        *float64               `mapstructure:"timeout,omitempty" json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Verify         *bool                  `mapstructure:"verify,omitempty" json:"verify,omitempty" yaml:"verify,omitempty"`
	AllowRedirects *bool                  `mapstructure:"allow_redirects,omitempty" json:"allow_redirects,omitempty" yaml:"allow_redirects,omitempty"`
	Upload         map[string]interface{} `mapstructure:"upload,omitempty" json:"upload,omitempty" yaml:"upload,omitempty"`
}

// TStep is one ordered step of a testcase. Exactly one of Request and
// TestCase must be set: a request step issues an HTTP call, a reference step
// delegates to another testcase document. During generation the TestCase
// field is rewritten from the referenced file path to the generated class
// identifier.
type TStep struct {
	Name      string                 `mapstructure:"name" json:"name" yaml:"name"`
	Request   *Request               `mapstructure:"request,omitempty" json:"request,omitempty" yaml:"request,omitempty"`
	TestCase  string                 `mapstructure:"testcase,omitempty" json:"testcase,omitempty" yaml:"testcase,omitempty"`
	Variables map[string]interface{} `mapstructure:"variables,omitempty" json:"variables,omitempty" yaml:"variables,omitempty"`
	Extract   map[string]string      `mapstructure:"extract,omitempty" json:"extract,omitempty" yaml:"extract,omitempty"`
	Export    []string               `mapstructure:"export,omitempty" json:"export,omitempty" yaml:"export,omitempty"`
	Validate  []interface{}          `mapstructure:"validate,omitempty" json:"validate,omitempty" yaml:"validate,omitempty"`
}

// IsRequestStep reports whether the step issues a request directly.
func (s *TStep) IsRequestStep() bool {
	return s.Request != nil
}

// IsReferenceStep reports whether the step references another testcase.
func (s *TStep) IsReferenceStep() bool {
	return s.TestCase != ""
}

// TCase is a loaded testcase document: configuration plus ordered steps.
type TCase struct {
	Config    Config  `mapstructure:"config" json:"config" yaml:"config"`
	TestSteps []TStep `mapstructure:"teststeps" json:"teststeps" yaml:"teststeps"`
}

// TCaseRef is one testcase reference inside a testsuite, carrying the
// per-reference overrides applied during suite expansion.
type TCaseRef struct {
	TestCase  string                 `mapstructure:"testcase" json:"testcase" yaml:"testcase"`
	Name      string                 `mapstructure:"name" json:"name" yaml:"name"`
	Variables map[string]interface{} `mapstructure:"variables,omitempty" json:"variables,omitempty" yaml:"variables,omitempty"`
	BaseURL   string                 `mapstructure:"base_url,omitempty" json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// TSuite is a loaded testsuite document: suite-level configuration plus the
// ordered testcase references it expands into.
type TSuite struct {
	Config    Config     `mapstructure:"config" json:"config" yaml:"config"`
	TestCases []TCaseRef `mapstructure:"testcases" json:"testcases" yaml:"testcases"`
}

// Validate checks the structural invariants of a testcase document.
func (tc *TCase) Validate() error {
	if len(tc.TestSteps) == 0 {
		return errors.Mark(
			errors.Newf("testcase %q has no teststeps", tc.Config.Path),
			errors.ErrTestCaseFormat,
		)
	}
	for i := range tc.TestSteps {
		step := &tc.TestSteps[i]
		if step.IsRequestStep() == step.IsReferenceStep() {
			return errors.Mark(
				errors.Newf("invalid teststep %q: exactly one of request/testcase required", step.Name),
				errors.ErrTestCaseFormat,
			)
		}
	}
	return nil
}

// Validate checks the structural invariants of a testsuite document.
func (ts *TSuite) Validate() error {
	if len(ts.TestCases) == 0 {
		return errors.Mark(
			errors.Newf("testsuite %q has no testcases", ts.Config.Path),
			errors.ErrTestSuiteFormat,
		)
	}
	for i := range ts.TestCases {
		if ts.TestCases[i].TestCase == "" {
			return errors.Mark(
				errors.Newf("testsuite %q: testcase reference %d has no testcase path", ts.Config.Path, i),
				errors.ErrTestSuiteFormat,
			)
		}
	}
	return nil
}

// ToTestCase decodes a raw document mapping into a validated testcase.
func ToTestCase(raw map[string]interface{}) (*TCase, error) {
	var tc TCase
	if err := decode(raw, &tc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode testcase"), errors.ErrTestCaseFormat)
	}
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return &tc, nil
}

// ToTestSuite decodes a raw document mapping into a validated testsuite.
func ToTestSuite(raw map[string]interface{}) (*TSuite, error) {
	var ts TSuite
	if err := decode(raw, &ts); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode testsuite"), errors.ErrTestSuiteFormat)
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return &ts, nil
}

func decode(raw map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
