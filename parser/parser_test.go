package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/pytestgen/errors"
)

func TestParseStringFunctionCall(t *testing.T) {
	functions := map[string]Function{
		"get_variables": func(args ...interface{}) (interface{}, error) {
			return map[string]interface{}{"token": "abc"}, nil
		},
	}

	value, err := ParseString("${get_variables()}", nil, functions)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"token": "abc"}, value)
}

func TestParseStringFunctionArguments(t *testing.T) {
	functions := map[string]Function{
		"sum_two": func(args ...interface{}) (interface{}, error) {
			require.Len(t, args, 2)
			return args[0].(int) + args[1].(int), nil
		},
	}

	value, err := ParseString("${sum_two(1, 2)}", nil, functions)
	require.NoError(t, err)
	assert.Equal(t, 3, value)
}

func TestParseStringVariableArgument(t *testing.T) {
	functions := map[string]Function{
		"identity": func(args ...interface{}) (interface{}, error) {
			return args[0], nil
		},
	}
	variables := map[string]interface{}{"user_id": 101}

	value, err := ParseString("${identity($user_id)}", variables, functions)
	require.NoError(t, err)
	assert.Equal(t, 101, value)
}

func TestParseStringVariableReference(t *testing.T) {
	variables := map[string]interface{}{"token": "abc"}

	value, err := ParseString("$token", variables, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	value, err = ParseString("${token}", variables, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", value)
}

func TestParseStringInlineSubstitution(t *testing.T) {
	variables := map[string]interface{}{"user_id": 101}

	value, err := ParseString("/users/$user_id/profile", variables, nil)
	require.NoError(t, err)
	assert.Equal(t, "/users/101/profile", value)
}

func TestParseStringPlainText(t *testing.T) {
	value, err := ParseString("no expressions here", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "no expressions here", value)
}

func TestParseStringFunctionNotFound(t *testing.T) {
	_, err := ParseString("${missing()}", nil, map[string]Function{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFunctionNotFound))
}

func TestParseStringVariableNotFound(t *testing.T) {
	_, err := ParseString("$missing", map[string]interface{}{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVariableNotFound))
}

func TestParseDataRecursive(t *testing.T) {
	variables := map[string]interface{}{"host": "httpbin.org"}
	raw := map[string]interface{}{
		"url":   "https://$host/get",
		"count": 3,
		"tags":  []interface{}{"$host", "static"},
	}

	parsed, err := ParseData(raw, variables, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"url":   "https://httpbin.org/get",
		"count": 3,
		"tags":  []interface{}{"httpbin.org", "static"},
	}, parsed)
}

func TestBuiltinEnviron(t *testing.T) {
	t.Setenv("PYTESTGEN_TEST_ENV", "hello")

	value, err := ParseString("${environ(PYTESTGEN_TEST_ENV)}", nil, Builtins())
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestBuiltinGenRandomString(t *testing.T) {
	value, err := ParseString("${gen_random_string(12)}", nil, Builtins())
	require.NoError(t, err)
	require.IsType(t, "", value)
	assert.Len(t, value.(string), 12)
}

func TestBuiltinGetTimestamp(t *testing.T) {
	value, err := ParseString("${get_timestamp()}", nil, Builtins())
	require.NoError(t, err)
	assert.IsType(t, int64(0), value)
}
