package testcase

import (
	"github.com/teranos/pytestgen/errors"
)

// Validator is the normalized form of one validation entry: an assertion
// method name, the check expression to evaluate against the response, and
// the expected value.
type Validator struct {
	Assert string
	Check  string
	Expect interface{}
}

// comparator aliases accepted in documents, normalized to the assertion
// method names of the generated framework calls.
var comparatorAliases = map[string]string{
	"eq":     "equal",
	"equals": "equal",
	"==":     "equal",
	"is":     "equal",

	"lt":        "less_than",
	"less_than": "less_than",

	"le":             "less_or_equals",
	"less_or_equals": "less_or_equals",

	"gt":           "greater_than",
	"greater_than": "greater_than",

	"ge":                "greater_or_equals",
	"greater_or_equals": "greater_or_equals",

	"ne":         "not_equal",
	"not_equals": "not_equal",

	"str_eq":        "string_equals",
	"string_equals": "string_equals",

	"len_eq":        "length_equal",
	"length_equal":  "length_equal",
	"count_eq":      "length_equal",
	"length_equals": "length_equal",

	"len_gt":              "length_greater_than",
	"count_gt":            "length_greater_than",
	"length_greater_than": "length_greater_than",

	"len_ge":                   "length_greater_or_equals",
	"count_ge":                 "length_greater_or_equals",
	"length_greater_or_equals": "length_greater_or_equals",

	"len_lt":           "length_less_than",
	"count_lt":         "length_less_than",
	"length_less_than": "length_less_than",

	"len_le":                "length_less_or_equals",
	"count_le":              "length_less_or_equals",
	"length_less_or_equals": "length_less_or_equals",
}

func uniformComparator(comparator string) string {
	if normalized, ok := comparatorAliases[comparator]; ok {
		return normalized
	}
	// contains, startswith, regex_match and friends pass through unchanged
	return comparator
}

// UniformValidator normalizes one raw validation entry. Two shapes are
// accepted:
//
//	{"check": "status_code", "comparator": "eq", "expect": 200}
//	{"eq": ["status_code", 200]}
func UniformValidator(raw interface{}) (*Validator, error) {
	entry, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Mark(
			errors.Newf("invalid validator entry: %v", raw),
			errors.ErrParams,
		)
	}

	var check string
	var expect interface{}
	var comparator string

	_, hasCheck := entry["check"]
	_, hasExpect := entry["expect"]
	switch {
	case hasCheck && hasExpect:
		check, _ = entry["check"].(string)
		expect = entry["expect"]
		comparator = "eq"
		if c, ok := entry["comparator"].(string); ok && c != "" {
			comparator = c
		} else if a, ok := entry["assert"].(string); ok && a != "" {
			comparator = a
		}
	case len(entry) == 1:
		for key, value := range entry {
			comparator = key
			pair, ok := value.([]interface{})
			if !ok || len(pair) != 2 {
				return nil, errors.Mark(
					errors.Newf("invalid validator compare values: %v", value),
					errors.ErrParams,
				)
			}
			check, _ = pair[0].(string)
			expect = pair[1]
		}
	default:
		return nil, errors.Mark(
			errors.Newf("invalid validator entry: %v", entry),
			errors.ErrParams,
		)
	}

	return &Validator{
		Assert: uniformComparator(comparator),
		Check:  check,
		Expect: expect,
	}, nil
}
