package bind

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewInput struct {
	Rating  int    `json:"rating"  form:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" form:"comment" validate:"required"`
}

func TestAuto_JSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":5,"comment":"great"}`))
	r.Header.Set("Content-Type", "application/json")

	var in reviewInput
	errs, err := Auto(r, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, 5, in.Rating)
}

func TestAuto_Form(t *testing.T) {
	body := url.Values{"rating": {"0"}, "comment": {"meh"}}.Encode()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in reviewInput
	errs, err := Auto(r, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "rating")
}

func TestJSON_Malformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":`))
	r.Header.Set("Content-Type", "application/json")

	var in reviewInput
	_, err := JSON(r, &in)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestForm_NonNumeric(t *testing.T) {
	body := url.Values{"rating": {"five"}, "comment": {"x"}}.Encode()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in reviewInput
	_, err := Form(r, &in)
	assert.True(t, errors.Is(err, ErrMalformed))
}
