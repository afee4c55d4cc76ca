// Package testkit drives HTTP tests from JSON scenario files.
//
// A scenario is an ordered list of steps played against one http.Handler by
// the same client: cookies set by one step are sent by the next, and values
// captured from a response can be substituted into later steps as ${name}.
//
//	testdata/
//	  checkout.json
//
//	{
//	  "name": "checkout",
//	  "steps": [
//	    {"name": "login", "method": "POST", "url": "/login",
//	     "json": {"username": "alice", "password": "secret123"},
//	     "expectedCode": 200, "capture": {"token": "token"}},
//	    {"name": "order", "method": "POST", "url": "/checkout",
//	     "headers": {"Authorization": "Bearer ${token}"},
//	     "json": {...}, "expectedCode": 201,
//	     "expect": {"success": true}}
//	  ],
//	  "mail": [{"to": "alice@example.com", "subjectContains": "confirmation"}]
//	}
//
// Example _test.go:
//
//	func TestStorefront(t *testing.T) {
//	    k := kernel.NewHTTPKernel(svc, schema, kernel.Options{})
//	    testkit.RunDir(t, k.Handler(), "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario is one user journey loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Vars seeds the substitution table before the first step.
	Vars map[string]string `json:"vars"`

	Steps []Step `json:"steps"`

	// Mail lists messages the journey must have sent, checked after the
	// last step against the runner's MockMailer.
	Mail []MailExpectation `json:"mail"`

	dir string
}

// Step is a single request and its assertions.
type Step struct {
	Name   string `json:"name"`
	Method string `json:"method"` // default GET
	URL    string `json:"url"`

	// At most one body: JSON is sent as application/json, Form as
	// application/x-www-form-urlencoded.
	JSON json.RawMessage   `json:"json"`
	Form map[string]string `json:"form"`

	Headers map[string]string `json:"headers"`

	ExpectedCode int `json:"expectedCode"`

	// Expect is matched as a subset of the response body: every key listed
	// must be present and equal, extra keys are ignored. The string "<any>"
	// matches any present value.
	Expect json.RawMessage `json:"expect"`

	// Location is matched as a prefix of the Location response header.
	Location string `json:"location"`

	// Capture stores response values for later steps: name → dotted path
	// into the body, e.g. "data.cart.items.0.id".
	Capture map[string]string `json:"capture"`

	// RunJobs drains background jobs after the response, via Runner.Jobs.
	RunJobs bool `json:"runJobs"`
}

// MailExpectation matches one sent message.
type MailExpectation struct {
	To              string `json:"to"`
	SubjectContains string `json:"subjectContains"`
	BodyContains    string `json:"bodyContains"`
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if len(st.JSON) > 0 && len(st.Form) > 0 {
			return fmt.Errorf("steps[%d] sets both json and form", i)
		}
		st.Method = strings.ToUpper(st.Method)
		if st.Method == "" {
			st.Method = "GET"
		}
		if st.Name == "" {
			st.Name = fmt.Sprintf("%02d %s %s", i+1, st.Method, st.URL)
		}
	}
	return nil
}

// Dir is the directory the scenario was loaded from.
func (s *Scenario) Dir() string { return s.dir }

// LoadAllFromDir loads every *.json file in dir as a Scenario.
// Files that fail to parse are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
