package maker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/testcase"
)

// Serialization renders document nodes into the fluent chain-call dialect of
// the generated pytest framework. Every node becomes a chain value (one
// constructor call plus ordered chained calls); a single renderer owns all
// quoting and Python literal formatting so the escaping rules live in one
// place.

type argKind int

const (
	argString   argKind = iota // double-quoted string
	argLiteral                 // Python literal via pyRepr
	argKwargs                  // **{...} splat
	argStarArgs                // *[...] splat
	argRaw                     // pre-rendered text, embedded verbatim
)

type callArg struct {
	kind  argKind
	value interface{}
}

func str(v string) callArg         { return callArg{kind: argString, value: v} }
func lit(v interface{}) callArg    { return callArg{kind: argLiteral, value: v} }
func kwargs(v interface{}) callArg { return callArg{kind: argKwargs, value: v} }
func stars(v interface{}) callArg  { return callArg{kind: argStarArgs, value: v} }
func raw(v string) callArg         { return callArg{kind: argRaw, value: v} }

type call struct {
	name string
	args []callArg
}

// chain is one fluent expression: a constructor followed by chained calls.
type chain struct {
	calls []call
}

func newChain(name string, args ...callArg) *chain {
	return &chain{calls: []call{{name: name, args: args}}}
}

func (c *chain) add(name string, args ...callArg) *chain {
	c.calls = append(c.calls, call{name: name, args: args})
	return c
}

func (c *chain) render() string {
	var b strings.Builder
	for i, call := range c.calls {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(call.name)
		b.WriteByte('(')
		for j, arg := range call.args {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(renderArg(arg))
		}
		b.WriteByte(')')
	}
	return b.String()
}

func renderArg(arg callArg) string {
	switch arg.kind {
	case argString:
		return `"` + escapeDouble(fmt.Sprintf("%v", arg.value)) + `"`
	case argKwargs:
		return "**" + pyRepr(arg.value)
	case argStarArgs:
		return "*" + pyRepr(arg.value)
	case argRaw:
		return arg.value.(string)
	default:
		return pyRepr(arg.value)
	}
}

func escapeDouble(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func escapeSingle(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// pyRepr renders a resolved document value as a Python literal. Mapping keys
// are sorted so generation is deterministic.
func pyRepr(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return "'" + escapeSingle(v) + "'"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case map[string]interface{}:
		return pyReprMap(v)
	case map[string]string:
		return pyReprMap(v)
	case []interface{}:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = pyRepr(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case []string:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = pyRepr(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func pyReprMap[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, key := range keys {
		pairs[i] = pyRepr(key) + ": " + pyRepr(interface{}(m[key]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// makeConfigChain serializes a testcase config block.
// Field order: name, variables, base_url, verify, export.
func makeConfigChain(config *testcase.Config) string {
	c := newChain("Config", str(config.Name))

	if variables := config.VariablesMap(); len(variables) > 0 {
		c.add("variables", kwargs(variables))
	}
	if config.BaseURL != "" {
		c.add("base_url", str(config.BaseURL))
	}
	if config.Verify != nil {
		c.add("verify", lit(*config.Verify))
	}
	if len(config.Export) > 0 {
		c.add("export", stars(config.Export))
	}
	return c.render()
}

// makeRequestChain appends the request part of a request step.
// Field order: params, headers, cookies, data, json, timeout, verify,
// allow_redirects, upload.
func makeRequestChain(c *chain, request *testcase.Request) {
	c.add(strings.ToLower(request.Method), str(request.URL))

	if len(request.Params) > 0 {
		c.add("with_params", kwargs(request.Params))
	}
	if len(request.Headers) > 0 {
		c.add("with_headers", kwargs(request.Headers))
	}
	if len(request.Cookies) > 0 {
		c.add("with_cookies", kwargs(request.Cookies))
	}
	if request.Data != nil {
		if text, ok := request.Data.(string); ok {
			c.add("with_data", str(text))
		} else {
			c.add("with_data", lit(request.Data))
		}
	}
	if request.JSON != nil {
		c.add("with_json", lit(request.JSON))
	}
	if request.Timeout != nil {
		c.add("set_timeout", lit(*request.Timeout))
	}
	if request.Verify != nil {
		c.add("set_verify", lit(*request.Verify))
	}
	if request.AllowRedirects != nil {
		c.add("set_allow_redirects", lit(*request.AllowRedirects))
	}
	if len(request.Upload) > 0 {
		c.add("upload", kwargs(request.Upload))
	}
}

// quoteCheck applies the check-expression quoting rule: expressions holding a
// double quote are wrapped in single quotes unmodified, everything else is
// double-quoted. e.g. body."user-agent" => 'body."user-agent"'
func quoteCheck(check string) string {
	if strings.Contains(check, `"`) {
		return "'" + check + "'"
	}
	return `"` + check + `"`
}

// makeTeststepChain serializes one teststep into its Step(...) expression.
// A reference step's TestCase field must already hold the resolved class
// identifier.
func makeTeststepChain(step *testcase.TStep) (string, error) {
	var c *chain
	switch {
	case step.IsRequestStep():
		c = newChain("RunRequest", str(step.Name))
	case step.IsReferenceStep():
		c = newChain("RunTestCase", str(step.Name))
	default:
		return "", errors.Mark(
			errors.Newf("invalid teststep %q: neither request nor testcase", step.Name),
			errors.ErrTestCaseFormat,
		)
	}

	if len(step.Variables) > 0 {
		c.add("with_variables", kwargs(step.Variables))
	}

	if step.IsRequestStep() {
		makeRequestChain(c, step.Request)
	} else {
		c.add("call", raw(step.TestCase))
	}

	if len(step.Extract) > 0 {
		c.add("extract")
		names := make([]string, 0, len(step.Extract))
		for name := range step.Extract {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			c.add("with_jmespath", str(step.Extract[name]), str(name))
		}
	}

	if len(step.Export) > 0 {
		c.add("export", stars(step.Export))
	}

	if len(step.Validate) > 0 {
		c.add("validate")
		for _, entry := range step.Validate {
			validator, err := testcase.UniformValidator(entry)
			if err != nil {
				return "", err
			}
			expect := lit(validator.Expect)
			if text, ok := validator.Expect.(string); ok {
				expect = str(text)
			}
			c.add("assert_"+validator.Assert, raw(quoteCheck(validator.Check)), expect)
		}
	}

	return "Step(" + c.render() + ")", nil
}
