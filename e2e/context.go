package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TestContext carries one scenario's session and the last response against a
// running vaxtrack server.
type TestContext struct {
	BaseURL    string
	AdminToken string
	SigningKey string
	Issuer     string
	Audience   string

	client      *http.Client
	accessToken string
	facility    string
	childID     string

	lastStatus int
	lastBody   []byte
}

func NewTestContext(baseURL, adminToken, signingKey string) *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AdminToken: adminToken,
		SigningKey: signingKey,
		Issuer:     "vaxtrack",
		Audience:   "vaxtrack-api",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.accessToken = ""
	tc.facility = ""
	tc.childID = ""
	tc.lastStatus = 0
	tc.lastBody = nil
}

// StartSession mints a session token for a fresh user at the facility.
func (tc *TestContext) StartSession(facility, role string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":       uuid.NewString(),
		"facility_code": facility,
		"role":          role,
		"iss":           tc.Issuer,
		"aud":           []string{tc.Audience},
		"iat":           now.Unix(),
		"exp":           now.Add(time.Hour).Unix(),
		"jti":           uuid.NewString(),
	})
	signed, err := token.SignedString([]byte(tc.SigningKey))
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}
	tc.accessToken = signed
	tc.facility = facility
	return nil
}

func (tc *TestContext) Facility() string { return tc.facility }

func (tc *TestContext) ChildID() string { return tc.childID }

func (tc *TestContext) SetChildID(id string) { tc.childID = id }

func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.do(http.MethodPost, path, body, tc.sessionHeaders())
}

func (tc *TestContext) PUT(path string, body interface{}) error {
	return tc.do(http.MethodPut, path, body, tc.sessionHeaders())
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	merged := tc.sessionHeaders()
	for k, v := range headers {
		merged[k] = v
	}
	return tc.do(http.MethodGet, path, nil, merged)
}

// AdminPOST calls an admin route with the admin token instead of a session.
func (tc *TestContext) AdminPOST(path string, body interface{}) error {
	return tc.do(http.MethodPost, path, body, map[string]string{"X-Admin-Token": tc.AdminToken})
}

func (tc *TestContext) sessionHeaders() map[string]string {
	headers := map[string]string{}
	if tc.accessToken != "" {
		headers["Authorization"] = "Bearer " + tc.accessToken
	}
	return headers
}

func (tc *TestContext) do(method, path string, body interface{}, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
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

func (tc *TestContext) GetLastResponseStatus() int { return tc.lastStatus }

func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

// GetResponseField reads a dotted path such as "summary.total" from the last
// JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var current interface{}
	if err := json.Unmarshal(tc.lastBody, &current); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		current, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %q not found in response", field)
		}
	}
	return current, nil
}
