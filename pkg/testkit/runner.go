package testkit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// baseURL is the origin the cookie jar files cookies under.
var baseURL = &url.URL{Scheme: "http", Host: "electrostore.test", Path: "/"}

// Runner plays scenarios against Handler.
type Runner struct {
	Handler http.Handler

	// Mailer receives mail expectations. Nil skips them.
	Mailer *MockMailer

	// Jobs is called after steps with runJobs set.
	Jobs func(ctx context.Context) error

	// Setup runs before each scenario, e.g. to truncate tables.
	Setup func(t *testing.T)
}

// New returns a Runner with no mailer or job hook.
func New(h http.Handler) *Runner { return &Runner{Handler: h} }

// Run executes a single scenario file against handler.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()
	New(handler).Run(t, scenarioPath)
}

// RunDir runs every *.json scenario in dir as a subtest.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()
	New(handler).RunDir(t, dir)
}

func (r *Runner) Run(t *testing.T, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}
	t.Run(s.Name, func(t *testing.T) { r.Play(t, s) })
}

func (r *Runner) RunDir(t *testing.T, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) { r.Play(t, s) })
	}
}

// Play executes s step by step with a fresh cookie jar. A failed step
// stops the scenario since later steps depend on its state.
func (r *Runner) Play(t *testing.T, s *Scenario) {
	t.Helper()

	if r.Setup != nil {
		r.Setup(t)
	}
	if r.Mailer != nil {
		r.Mailer.Reset()
	}

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	vars := map[string]string{}
	for k, v := range s.Vars {
		vars[k] = v
	}

	for i := range s.Steps {
		st := s.Steps[i]
		ok := t.Run(st.Name, func(t *testing.T) {
			r.step(t, jar, vars, st)
		})
		if !ok {
			t.Fatalf("[%s] step %q failed; skipping the rest", s.Name, st.Name)
		}
	}

	if r.Mailer != nil {
		AssertMail(t, s, r.Mailer.Sent())
	}
}

func (r *Runner) step(t *testing.T, jar http.CookieJar, vars map[string]string, st Step) {
	t.Helper()

	req := buildRequest(t, st, vars)
	for _, c := range jar.Cookies(baseURL) {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)
	res := rec.Result()
	jar.SetCookies(baseURL, res.Cookies())

	body := rec.Body.Bytes()
	require.Equal(t, st.ExpectedCode, rec.Code, "status mismatch\nbody: %s", body)

	if st.Location != "" {
		loc := substitute(st.Location, vars)
		require.True(t, strings.HasPrefix(res.Header.Get("Location"), loc),
			"Location %q does not start with %q", res.Header.Get("Location"), loc)
	}
	if len(st.Expect) > 0 {
		AssertJSONSubset(t, []byte(substitute(string(st.Expect), vars)), body)
	}
	if len(st.Capture) > 0 {
		captureInto(t, vars, st.Capture, body)
	}
	if st.RunJobs {
		require.NotNil(t, r.Jobs, "runJobs set but Runner.Jobs is nil")
		require.NoError(t, r.Jobs(req.Context()))
	}
}

func buildRequest(t *testing.T, st Step, vars map[string]string) *http.Request {
	t.Helper()

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case len(st.JSON) > 0:
		body = bytes.NewBufferString(substitute(string(st.JSON), vars))
		contentType = "application/json"
	case len(st.Form) > 0:
		form := url.Values{}
		for k, v := range st.Form {
			form.Set(k, substitute(v, vars))
		}
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req := httptest.NewRequest(st.Method, substitute(st.URL, vars), body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range st.Headers {
		req.Header.Set(k, substitute(v, vars))
	}
	return req
}

var varPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_.]+)\}`)

// substitute replaces ${name} with captured values. Unknown names are left
// untouched so the mismatch shows up in the failing assertion.
func substitute(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := vars[m[2:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// DumpScenario prints a summary of s; handy while writing scenario files.
func DumpScenario(s *Scenario) {
	fmt.Printf("Scenario: %s\n", s.Name)
	for i, st := range s.Steps {
		fmt.Printf("  [%d] %s %s → %d  %s\n", i, st.Method, st.URL, st.ExpectedCode, st.Name)
	}
	for _, m := range s.Mail {
		fmt.Printf("  mail to=%s subject~%q\n", m.To, m.SubjectContains)
	}
}
