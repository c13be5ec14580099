// Package parser resolves embedded expressions in document values.
//
// Two expression forms are supported, matching the document dialect:
//
//	${func(arg1, arg2)}  function call against the project function table
//	$var / ${var}        variable reference
//
// A string that consists of exactly one expression resolves to the value the
// expression produces (which need not be a string); otherwise expressions are
// substituted inline into the surrounding text.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/pytestgen/errors"
)

// Function is one entry of a project function table.
type Function func(args ...interface{}) (interface{}, error)

var (
	// full-string forms
	callExprRegex     = regexp.MustCompile(`^\$\{(\w+)\(([^)]*)\)\}$`)
	variableExprRegex = regexp.MustCompile(`^\$\{?(\w+)\}?$`)

	// inline form, matched lazily for substitution
	inlineExprRegex = regexp.MustCompile(`\$\{(\w+)\(([^)]*)\)\}|\$\{?(\w+)\}?`)
)

// ErrFunctionNotFound indicates an expression calls a function absent from
// the project function table.
var ErrFunctionNotFound = errors.New("function not found")

// ErrVariableNotFound indicates an expression references an unbound variable.
var ErrVariableNotFound = errors.New("variable not found")

// ParseData recursively resolves expressions in raw document data.
// Mappings and sequences are rebuilt with resolved values; strings are
// resolved via ParseString; everything else passes through unchanged.
func ParseData(raw interface{}, variables map[string]interface{}, functions map[string]Function) (interface{}, error) {
	switch value := raw.(type) {
	case string:
		return ParseString(value, variables, functions)
	case map[string]interface{}:
		parsed := make(map[string]interface{}, len(value))
		for key, item := range value {
			resolved, err := ParseData(item, variables, functions)
			if err != nil {
				return nil, err
			}
			parsed[key] = resolved
		}
		return parsed, nil
	case []interface{}:
		parsed := make([]interface{}, len(value))
		for i, item := range value {
			resolved, err := ParseData(item, variables, functions)
			if err != nil {
				return nil, err
			}
			parsed[i] = resolved
		}
		return parsed, nil
	default:
		return raw, nil
	}
}

// ParseString resolves expressions in one string value.
func ParseString(raw string, variables map[string]interface{}, functions map[string]Function) (interface{}, error) {
	if match := callExprRegex.FindStringSubmatch(raw); match != nil {
		return callFunction(match[1], match[2], variables, functions)
	}
	if match := variableExprRegex.FindStringSubmatch(raw); match != nil {
		value, ok := variables[match[1]]
		if !ok {
			return nil, errors.Mark(errors.Newf("variable %q not bound", match[1]), ErrVariableNotFound)
		}
		return value, nil
	}
	if !strings.Contains(raw, "$") {
		return raw, nil
	}

	// inline substitution: resolved values are stringified into place
	var firstErr error
	result := inlineExprRegex.ReplaceAllStringFunc(raw, func(expr string) string {
		if firstErr != nil {
			return expr
		}
		resolved, err := ParseString(expr, variables, functions)
		if err != nil {
			firstErr = err
			return expr
		}
		return fmt.Sprintf("%v", resolved)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}

func callFunction(name, rawArgs string, variables map[string]interface{}, functions map[string]Function) (interface{}, error) {
	fn, ok := functions[name]
	if !ok {
		return nil, errors.Mark(errors.Newf("function %q not in project function table", name), ErrFunctionNotFound)
	}

	args, err := parseArguments(rawArgs, variables)
	if err != nil {
		return nil, errors.Wrapf(err, "parse arguments of %s()", name)
	}

	value, err := fn(args...)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s()", name)
	}
	return value, nil
}

// parseArguments splits a comma-separated argument list into literal values.
// Arguments may be quoted strings, numbers, booleans or $variable references.
func parseArguments(rawArgs string, variables map[string]interface{}) ([]interface{}, error) {
	rawArgs = strings.TrimSpace(rawArgs)
	if rawArgs == "" {
		return nil, nil
	}

	parts := strings.Split(rawArgs, ",")
	args := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "$"):
			name := strings.TrimPrefix(part, "$")
			value, ok := variables[name]
			if !ok {
				return nil, errors.Mark(errors.Newf("variable %q not bound", name), ErrVariableNotFound)
			}
			args = append(args, value)
		case len(part) >= 2 && (part[0] == '"' || part[0] == '\''):
			args = append(args, strings.Trim(part, `"'`))
		case part == "true" || part == "True":
			args = append(args, true)
		case part == "false" || part == "False":
			args = append(args, false)
		default:
			if n, err := strconv.Atoi(part); err == nil {
				args = append(args, n)
			} else if f, err := strconv.ParseFloat(part, 64); err == nil {
				args = append(args, f)
			} else {
				args = append(args, part)
			}
		}
	}
	return args, nil
}
