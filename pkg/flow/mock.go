package flow

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-rod/rod/lib/proto"
	"gopkg.in/yaml.v3"
)

// MockResponse is a fixed response bound to a URL pattern for the lifetime
// of one browser session. Every matching request receives it verbatim.
type MockResponse struct {
	Pattern     string `yaml:"pattern"`      // CDP URL pattern: '*' is any run of characters, '?' one
	Method      string `yaml:"method"`       // empty matches any method
	Status      int    `yaml:"status"`       // defaults to 200
	ContentType string `yaml:"content_type"` // defaults to application/json
	Body        string `yaml:"body"`
}

// JSONMock returns a 200 application/json mock for pattern.
func JSONMock(pattern, body string) MockResponse {
	return MockResponse{
		Pattern:     pattern,
		Status:      http.StatusOK,
		ContentType: "application/json",
		Body:        body,
	}
}

// Glob returns the pattern with runs of '*' collapsed to one.
// Browser-level matchers treat '*' as "zero or more characters", so "**"
// adds nothing and some regexp translations reject it.
func (m MockResponse) Glob() string {
	var b strings.Builder
	prevStar := false
	for _, r := range m.Pattern {
		if r == '*' {
			if prevStar {
				continue
			}
			prevStar = true
		} else {
			prevStar = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Regexp compiles the pattern the way the browser's Fetch domain matches it.
// Characters other than '*' and '?' are not escaped, so '.' matches any
// character there too.
func (m MockResponse) Regexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile(proto.PatternToReg(m.Glob()))
	if err != nil {
		return nil, fmt.Errorf("mock %s: invalid pattern: %w", m.Pattern, err)
	}
	return re, nil
}

// Matches reports whether a request is answered by this mock.
func (m MockResponse) Matches(method, url string) bool {
	if m.Method != "" && !strings.EqualFold(m.Method, method) {
		return false
	}
	re, err := m.Regexp()
	return err == nil && re.MatchString(url)
}

// Validate reports an unusable mock.
func (m MockResponse) Validate() error {
	if m.Pattern == "" {
		return errors.New("mock without pattern")
	}
	if m.Status != 0 && (m.Status < 100 || m.Status > 599) {
		return fmt.Errorf("mock %s: invalid status %d", m.Pattern, m.Status)
	}
	_, err := m.Regexp()
	return err
}

func (m MockResponse) withDefaults() MockResponse {
	if m.Status == 0 {
		m.Status = http.StatusOK
	}
	if m.ContentType == "" {
		m.ContentType = "application/json"
	}
	return m
}

// LoadMocks decodes a YAML list of mock responses.
func LoadMocks(r io.Reader) ([]MockResponse, error) {
	var mocks []MockResponse
	if err := yaml.NewDecoder(r).Decode(&mocks); err != nil {
		return nil, fmt.Errorf("decode mocks: %w", err)
	}
	for i := range mocks {
		if err := mocks[i].Validate(); err != nil {
			return nil, err
		}
		mocks[i] = mocks[i].withDefaults()
	}
	return mocks, nil
}

// FindMock returns the first mock whose pattern ends with suffix.
func FindMock(mocks []MockResponse, suffix string) (MockResponse, bool) {
	for _, m := range mocks {
		if strings.HasSuffix(m.Pattern, suffix) {
			return m, true
		}
	}
	return MockResponse{}, false
}
