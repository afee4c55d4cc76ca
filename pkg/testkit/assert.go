package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/electrostore/pkg/mail"
)

// anyValue in an expectation matches whatever the response holds.
const anyValue = "<any>"

// AssertJSONSubset checks that every key in expected appears in actual with
// the same value. Arrays must match in length; objects may carry extras.
func AssertJSONSubset(t *testing.T, expected, actual []byte) {
	t.Helper()

	exp, err := decode(expected)
	require.NoError(t, err, "expectation is not valid JSON")

	act, err := decode(actual)
	if !assert.NoError(t, err, "response is not valid JSON\nbody: %s", actual) {
		return
	}

	if diffs := DiffJSON("", exp, act); len(diffs) > 0 {
		assert.Fail(t, "response body mismatch", "%s\nbody: %s", strings.Join(diffs, "\n"), actual)
	}
}

// DiffJSON lists where actual departs from the subset described by expected.
func DiffJSON(path string, expected, actual any) []string {
	if s, ok := expected.(string); ok && s == anyValue {
		return nil
	}

	var diffs []string
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual)}
		}
		keys := make([]string, 0, len(exp))
		for k := range exp {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, exp[k], av)...)
		}
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return []string{fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual)}
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprint(expected) != fmt.Sprint(actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

// Lookup walks a dotted path ("data.items.0.id") through a decoded body.
func Lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, true
	}
	for _, part := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, true
}

func captureInto(t *testing.T, vars map[string]string, capture map[string]string, body []byte) {
	t.Helper()

	doc, err := decode(body)
	require.NoError(t, err, "capture needs a JSON body\nbody: %s", body)

	for name, path := range capture {
		v, ok := Lookup(doc, path)
		require.True(t, ok, "capture %q: path %q not found\nbody: %s", name, path, body)
		vars[name] = fmt.Sprint(v)
	}
}

// AssertMail checks that every expectation in s matched a distinct message.
func AssertMail(t *testing.T, s *Scenario, sent []mail.Message) {
	t.Helper()

	used := make([]bool, len(sent))
	for _, want := range s.Mail {
		found := false
		for i, m := range sent {
			if !used[i] && want.matches(m) {
				used[i], found = true, true
				break
			}
		}
		assert.True(t, found, "[%s] no mail to %q with subject ~%q (sent %d)", s.Name, want.To, want.SubjectContains, len(sent))
	}
}

func (e MailExpectation) matches(m mail.Message) bool {
	if e.To != "" && !slices.Contains(m.To, e.To) {
		return false
	}
	if !strings.Contains(m.Subject, e.SubjectContains) {
		return false
	}
	return e.BodyContains == "" || strings.Contains(m.Text, e.BodyContains) || strings.Contains(m.HTML, e.BodyContains)
}

// decode keeps numbers as json.Number so captured ids print without an
// exponent.
func decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	err := dec.Decode(&v)
	return v, err
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
