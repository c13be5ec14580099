package loader

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/teranos/pytestgen/errors"
)

// Minimal shape of an HTTP-archive file, the legacy capture format.
type harFile struct {
	Log struct {
		Entries []harEntry `json:"entries"`
	} `json:"log"`
}

type harEntry struct {
	Request struct {
		Method   string     `json:"method"`
		URL      string     `json:"url"`
		Headers  []harPair  `json:"headers"`
		PostData *struct {
			MimeType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"postData"`
	} `json:"request"`
	Response struct {
		Status int `json:"status"`
	} `json:"response"`
}

type harPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// headers injected by the capturing browser, useless for replay
var skippedHARHeaders = map[string]bool{
	"host":            true,
	"content-length":  true,
	"cookie":          true,
	"accept-encoding": true,
	"connection":      true,
}

// loadHAR converts a legacy HTTP-archive capture into a testcase mapping:
// one request step per entry, each validating the captured status code.
func loadHAR(content []byte, path string) (map[string]interface{}, error) {
	var har harFile
	if err := json.Unmarshal(content, &har); err != nil {
		return nil, errors.Mark(
			errors.Wrapf(err, "invalid har file %s", path),
			errors.ErrFileFormat,
		)
	}
	if len(har.Log.Entries) == 0 {
		return nil, errors.Mark(
			errors.Newf("har file has no entries: %s", path),
			errors.ErrFileFormat,
		)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	steps := make([]interface{}, 0, len(har.Log.Entries))
	for _, entry := range har.Log.Entries {
		steps = append(steps, convertHAREntry(entry))
	}

	return map[string]interface{}{
		"config":    map[string]interface{}{"name": "testcase converted from " + name},
		"teststeps": steps,
	}, nil
}

func convertHAREntry(entry harEntry) map[string]interface{} {
	request := map[string]interface{}{
		"method": entry.Request.Method,
		"url":    entry.Request.URL,
	}

	headers := map[string]interface{}{}
	for _, header := range entry.Request.Headers {
		if skippedHARHeaders[strings.ToLower(header.Name)] || strings.HasPrefix(header.Name, ":") {
			continue
		}
		headers[header.Name] = header.Value
	}
	if len(headers) > 0 {
		request["headers"] = headers
	}

	if post := entry.Request.PostData; post != nil && post.Text != "" {
		if strings.Contains(post.MimeType, "json") {
			var body interface{}
			if err := json.Unmarshal([]byte(post.Text), &body); err == nil {
				request["json"] = body
			} else {
				request["data"] = post.Text
			}
		} else {
			request["data"] = post.Text
		}
	}

	step := map[string]interface{}{
		"name":    entry.Request.Method + " " + entry.Request.URL,
		"request": request,
	}
	if entry.Response.Status > 0 {
		step["validate"] = []interface{}{
			map[string]interface{}{
				"eq": []interface{}{"status_code", entry.Response.Status},
			},
		}
	}
	return step
}
