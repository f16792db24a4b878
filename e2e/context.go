// Package e2e drives a running orglink server through its admin API.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries per-scenario HTTP state.
type TestContext struct {
	BaseURL    string
	AdminToken string

	client     *http.Client
	lastStatus int
	lastBody   []byte
	subjectID  string
}

// NewTestContext builds a context for one scenario.
func NewTestContext(baseURL, adminToken string) *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AdminToken: adminToken,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (tc *TestContext) do(method, path string, body interface{}, withToken bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if withToken {
		req.Header.Set("X-Admin-Token", tc.AdminToken)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

// GET issues an authenticated GET.
func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil, true)
}

// POST issues an authenticated JSON POST.
func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.do(http.MethodPost, path, body, true)
}

// PUT issues an authenticated JSON PUT.
func (tc *TestContext) PUT(path string, body interface{}) error {
	return tc.do(http.MethodPut, path, body, true)
}

// DELETE issues an authenticated DELETE.
func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil, true)
}

// GETWithoutToken issues an unauthenticated GET.
func (tc *TestContext) GETWithoutToken(path string) error {
	return tc.do(http.MethodGet, path, nil, false)
}

func (tc *TestContext) GetLastStatus() int {
	return tc.lastStatus
}

// GetResponseField reads a dotted path ("match.strategy") from the last
// JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", tc.lastBody)
	}
	cur := doc
	for _, part := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		if cur, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q not found in %s", field, tc.lastBody)
		}
	}
	return cur, nil
}

func (tc *TestContext) GetSubjectID() string {
	return tc.subjectID
}

func (tc *TestContext) SetSubjectID(id string) {
	tc.subjectID = id
}
