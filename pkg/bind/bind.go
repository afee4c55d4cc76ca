// Package bind decodes and validates an HTTP request body into a struct.
// JSON bodies and urlencoded/multipart forms are both accepted so the same
// handler serves XHR callers and classic HTML form posts.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-playground/form/v4"
	"github.com/shashiranjanraj/electrostore/config"
	"github.com/shashiranjanraj/electrostore/pkg/validate"
)

var formDecoder = func() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("form")
	return d
}()

// ErrMalformed wraps every decode failure (bad JSON, bad form value, body too large).
var ErrMalformed = errors.New("malformed request body")

// maxBodyBytes returns the configured request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20 // 4 MB
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES (default 4 MB) to prevent memory exhaustion.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	if err := decodeJSON(r, dest); err != nil {
		return nil, err
	}
	return check(dest)
}

// Form decodes an urlencoded or multipart form into dest using `form` tags
// and runs validation.
func Form(r *http.Request, dest interface{}) (map[string]string, error) {
	if err := decodeForm(r, dest); err != nil {
		return nil, err
	}
	return check(dest)
}

// Auto picks JSON or Form from the Content-Type header.
func Auto(r *http.Request, dest interface{}) (map[string]string, error) {
	if IsJSON(r) {
		return JSON(r, dest)
	}
	return Form(r, dest)
}

// Query decodes the URL query string into dest using `form` tags. Fields
// that fail to convert are left at their zero value.
func Query(r *http.Request, dest interface{}) {
	_ = formDecoder.Decode(dest, r.URL.Query())
}

// IsJSON reports whether the request body is declared as JSON.
func IsJSON(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

func check(dest interface{}) (map[string]string, error) {
	errs := validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

func decodeJSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: body too large (max %d bytes)", ErrMalformed, maxErr.Limit)
		}
		return fmt.Errorf("%w: invalid JSON: %v", ErrMalformed, err)
	}
	return nil
}

func decodeForm(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mt == "multipart/form-data" {
		err = r.ParseMultipartForm(maxBodyBytes())
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := formDecoder.Decode(dest, r.PostForm); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
