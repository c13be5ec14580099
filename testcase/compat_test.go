package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureTestCaseV3API(t *testing.T) {
	raw := map[string]interface{}{
		"name":     "get headers",
		"base_url": "https://httpbin.org",
		"request": map[string]interface{}{
			"method": "GET",
			"url":    "/headers",
		},
		"validate": []interface{}{
			map[string]interface{}{"eq": []interface{}{"status_code", 200}},
		},
	}

	upgraded := EnsureTestCaseV3API(raw)

	config := upgraded["config"].(map[string]interface{})
	assert.Equal(t, "get headers", config["name"])
	assert.Equal(t, "https://httpbin.org", config["base_url"])

	steps := upgraded["teststeps"].([]interface{})
	require.Len(t, steps, 1)
	step := steps[0].(map[string]interface{})
	assert.Equal(t, "get headers", step["name"])
	assert.NotNil(t, step["request"])
	assert.Len(t, step["validate"], 1)
}

func TestEnsureTestCaseV3APIDecodes(t *testing.T) {
	raw := map[string]interface{}{
		"name": "ping",
		"request": map[string]interface{}{
			"method": "GET",
			"url":    "/ping",
		},
	}

	tc, err := ToTestCase(EnsureTestCaseV3API(raw))
	require.NoError(t, err)
	assert.Equal(t, "ping", tc.Config.Name)
	require.Len(t, tc.TestSteps, 1)
	assert.True(t, tc.TestSteps[0].IsRequestStep())
}

func TestEnsureTestCaseV3APIStepReference(t *testing.T) {
	raw := map[string]interface{}{
		"config": map[string]interface{}{"name": "v2 case"},
		"teststeps": []interface{}{
			map[string]interface{}{
				"name": "call api",
				"api":  "api/get_token.yml",
			},
		},
	}

	upgraded := EnsureTestCaseV3(raw)
	step := upgraded["teststeps"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "api/get_token.yml", step["testcase"])
	_, hasAPI := step["api"]
	assert.False(t, hasAPI)
}

func TestEnsureTestCaseV3VariablesList(t *testing.T) {
	raw := map[string]interface{}{
		"config": map[string]interface{}{
			"name": "v2 case",
			"variables": []interface{}{
				map[string]interface{}{"token": "abc"},
				map[string]interface{}{"user_id": 101},
			},
		},
		"teststeps": []interface{}{
			map[string]interface{}{
				"name":    "s1",
				"request": map[string]interface{}{"method": "GET", "url": "/ping"},
			},
		},
	}

	upgraded := EnsureTestCaseV3(raw)
	config := upgraded["config"].(map[string]interface{})
	assert.Equal(t,
		map[string]interface{}{"token": "abc", "user_id": 101},
		config["variables"],
	)
}

func TestEnsureTestCaseV3ExtractorList(t *testing.T) {
	raw := map[string]interface{}{
		"config": map[string]interface{}{"name": "v2 case"},
		"teststeps": []interface{}{
			map[string]interface{}{
				"name":    "s1",
				"request": map[string]interface{}{"method": "GET", "url": "/ping"},
				"extract": []interface{}{
					map[string]interface{}{"token": "content.token"},
				},
			},
		},
	}

	upgraded := EnsureTestCaseV3(raw)
	step := upgraded["teststeps"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t,
		map[string]interface{}{"token": "body.token"},
		step["extract"],
	)
}

func TestConvertJmespath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"content.token", "body.token"},
		{"json.code", "body.code"},
		{"status_code", "status_code"},
		{"headers.User-Agent", `headers."User-Agent"`},
		{"body.data.ids", "body.data.ids"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, convertJmespath(tt.in), tt.in)
	}
}
