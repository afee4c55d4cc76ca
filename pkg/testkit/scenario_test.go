package testkit_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/electrostore/pkg/mail"
	"github.com/shashiranjanraj/electrostore/pkg/testkit"
)

// testHandler is a tiny session-cookie app that powers the self-tests.
func testHandler(mailer mail.Mailer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Username string }
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "who", Value: in.Username, Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"user":{"id":42,"username":"` + in.Username + `"}}`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /me/{id}", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("who")
		if err != nil {
			http.Redirect(w, r, "/login?next="+r.URL.Path, http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id": r.PathValue("id"), "username": c.Value, "extra": []int{1, 2},
		})
	})
	mux.HandleFunc("POST /notify", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm() //nolint:errcheck
		err := mailer.Send(r.Context(), mail.Message{
			To:      []string{r.PostFormValue("to")},
			Subject: "Hello " + r.PostFormValue("name"),
			Text:    "hi",
		})
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestRunDir(t *testing.T) {
	mailer := testkit.NewMockMailer()
	r := testkit.New(testHandler(mailer))
	r.Mailer = mailer
	r.RunDir(t, "testdata")
}

func TestMockMailerScriptedFailure(t *testing.T) {
	mailer := &testkit.MockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err := mailer.Send(context.Background(), mail.Message{To: []string{"a@b.c"}})
	assert.EqualError(t, err, "smtp down")
	assert.Len(t, mailer.Sent(), 1)
	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestLoadScenarioDefaults(t *testing.T) {
	s, err := testkit.LoadScenario("testdata/session.json")
	require.NoError(t, err)
	assert.Equal(t, "GET", s.Steps[2].Method)
	assert.NotEmpty(t, s.Steps[2].Name)
}

func TestDiffJSONSubset(t *testing.T) {
	exp := map[string]any{"a": "1", "b": map[string]any{"c": "<any>"}}
	act := map[string]any{"a": "1", "b": map[string]any{"c": 9.0, "d": true}, "z": 0}
	assert.Empty(t, testkit.DiffJSON("", exp, act))

	act["a"] = "2"
	assert.Len(t, testkit.DiffJSON("", exp, act), 1)
	assert.Len(t, testkit.DiffJSON("", []any{1.0}, []any{1.0, 2.0}), 1)
}

func TestLookup(t *testing.T) {
	doc := map[string]any{"data": map[string]any{"items": []any{map[string]any{"id": 7}}}}

	v, ok := testkit.Lookup(doc, "data.items.0.id")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = testkit.Lookup(doc, "data.items.3.id")
	assert.False(t, ok)
}
