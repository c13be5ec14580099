package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/pytestgen/errors"
)

func TestUniformValidatorCheckExpectShape(t *testing.T) {
	v, err := UniformValidator(map[string]interface{}{
		"check":      "status_code",
		"comparator": "eq",
		"expect":     200,
	})
	require.NoError(t, err)
	assert.Equal(t, "equal", v.Assert)
	assert.Equal(t, "status_code", v.Check)
	assert.Equal(t, 200, v.Expect)
}

func TestUniformValidatorDefaultComparator(t *testing.T) {
	v, err := UniformValidator(map[string]interface{}{
		"check":  "status_code",
		"expect": 200,
	})
	require.NoError(t, err)
	assert.Equal(t, "equal", v.Assert)
}

func TestUniformValidatorCompactShape(t *testing.T) {
	v, err := UniformValidator(map[string]interface{}{
		"eq": []interface{}{"body.code", 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "equal", v.Assert)
	assert.Equal(t, "body.code", v.Check)
	assert.Equal(t, 0, v.Expect)
}

func TestUniformValidatorComparatorAliases(t *testing.T) {
	tests := []struct {
		comparator string
		want       string
	}{
		{"eq", "equal"},
		{"==", "equal"},
		{"is", "equal"},
		{"lt", "less_than"},
		{"le", "less_or_equals"},
		{"gt", "greater_than"},
		{"ge", "greater_or_equals"},
		{"ne", "not_equal"},
		{"str_eq", "string_equals"},
		{"len_eq", "length_equal"},
		{"len_gt", "length_greater_than"},
		{"contains", "contains"},
		{"startswith", "startswith"},
	}
	for _, tt := range tests {
		v, err := UniformValidator(map[string]interface{}{
			tt.comparator: []interface{}{"body.msg", "ok"},
		})
		require.NoError(t, err, tt.comparator)
		assert.Equal(t, tt.want, v.Assert, tt.comparator)
	}
}

func TestUniformValidatorInvalidShapes(t *testing.T) {
	invalid := []interface{}{
		"not a mapping",
		map[string]interface{}{"eq": "not a pair"},
		map[string]interface{}{"eq": []interface{}{"only one"}},
		map[string]interface{}{"check": "status_code", "comparator": "eq"},
	}
	for _, raw := range invalid {
		_, err := UniformValidator(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrParams))
	}
}
