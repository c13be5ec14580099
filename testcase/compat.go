package testcase

import (
	"strings"

	"github.com/teranos/pytestgen/logger"
)

// Compatibility upgrades for documents written against the v2 format.
// Upgrades operate on the raw document mapping, before the typed decode.

// EnsureTestCaseV3API upgrades a legacy single-request API document (a
// top-level "request" key instead of teststeps) into a v3 testcase mapping
// with one request step.
func EnsureTestCaseV3API(raw map[string]interface{}) map[string]interface{} {
	logger.Infow("convert api in v2 format to testcase format v3")

	name, _ := raw["name"].(string)
	teststep := map[string]interface{}{
		"name":    name,
		"request": raw["request"],
	}
	if variables, ok := raw["variables"]; ok {
		teststep["variables"] = convertVariables(variables)
	}
	if extract, ok := raw["extract"]; ok {
		teststep["extract"] = convertExtractors(extract)
	}
	if validate, ok := firstOf(raw, "validate", "validators"); ok {
		teststep["validate"] = convertValidators(validate)
	}

	config := map[string]interface{}{"name": name}
	for _, key := range []string{"base_url", "verify", "export", "path"} {
		if value, ok := raw[key]; ok {
			config[key] = value
		}
	}

	return map[string]interface{}{
		"config":    config,
		"teststeps": []interface{}{teststep},
	}
}

// EnsureTestCaseV3 normalizes a v2 testcase mapping in place: api step
// references become testcase references, list-form extractors become
// mappings, and legacy check expressions are rewritten to jmespath.
func EnsureTestCaseV3(raw map[string]interface{}) map[string]interface{} {
	if config, ok := raw["config"].(map[string]interface{}); ok {
		if variables, present := config["variables"]; present {
			config["variables"] = convertVariables(variables)
		}
	}

	steps, ok := raw["teststeps"].([]interface{})
	if !ok {
		return raw
	}
	for _, item := range steps {
		step, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if api, present := step["api"]; present {
			step["testcase"] = api
			delete(step, "api")
		}
		if variables, present := step["variables"]; present {
			step["variables"] = convertVariables(variables)
		}
		if extract, present := step["extract"]; present {
			step["extract"] = convertExtractors(extract)
		}
		if validate, present := firstOf(step, "validate", "validators"); present {
			delete(step, "validators")
			step["validate"] = convertValidators(validate)
		}
	}
	return raw
}

func firstOf(raw map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if value, ok := raw[key]; ok {
			return value, true
		}
	}
	return nil, false
}

// convertVariables accepts the v2 list-of-single-entry-mappings form and
// flattens it; mapping-form and expression-string variables pass through.
func convertVariables(raw interface{}) interface{} {
	entries, ok := raw.([]interface{})
	if !ok {
		return raw
	}
	variables := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		mapping, ok := entry.(map[string]interface{})
		if !ok {
			logger.Warnw("skip invalid v2 variable entry", "entry", entry)
			continue
		}
		for key, value := range mapping {
			variables[key] = value
		}
	}
	return variables
}

// convertExtractors accepts the v2 list form [{name: path}, ...] and the
// mapping form, returning a mapping with check expressions upgraded.
func convertExtractors(raw interface{}) interface{} {
	switch extractors := raw.(type) {
	case map[string]interface{}:
		converted := make(map[string]interface{}, len(extractors))
		for name, path := range extractors {
			if text, ok := path.(string); ok {
				converted[name] = convertJmespath(text)
			} else {
				converted[name] = path
			}
		}
		return converted
	case []interface{}:
		converted := make(map[string]interface{}, len(extractors))
		for _, entry := range extractors {
			mapping, ok := entry.(map[string]interface{})
			if !ok {
				logger.Warnw("skip invalid v2 extractor entry", "entry", entry)
				continue
			}
			for name, path := range mapping {
				if text, ok := path.(string); ok {
					converted[name] = convertJmespath(text)
				} else {
					converted[name] = path
				}
			}
		}
		return converted
	default:
		return raw
	}
}

func convertValidators(raw interface{}) interface{} {
	entries, ok := raw.([]interface{})
	if !ok {
		return raw
	}
	for _, item := range entries {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if check, present := entry["check"].(string); present {
			entry["check"] = convertJmespath(check)
		} else if len(entry) == 1 {
			for comparator, value := range entry {
				pair, ok := value.([]interface{})
				if !ok || len(pair) != 2 {
					continue
				}
				if check, ok := pair[0].(string); ok {
					entry[comparator] = []interface{}{convertJmespath(check), pair[1]}
				}
			}
		}
	}
	return entries
}

// convertJmespath rewrites v2 check expressions to response jmespath:
// content.* and json.* become body.*, and path segments containing hyphens
// are double-quoted so jmespath parses them.
func convertJmespath(check string) string {
	if strings.HasPrefix(check, "content.") {
		check = "body." + strings.TrimPrefix(check, "content.")
	} else if strings.HasPrefix(check, "json.") {
		check = "body." + strings.TrimPrefix(check, "json.")
	}

	segments := strings.Split(check, ".")
	for i, segment := range segments {
		if strings.Contains(segment, "-") && !strings.HasPrefix(segment, `"`) {
			segments[i] = `"` + segment + `"`
		}
	}
	return strings.Join(segments, ".")
}
