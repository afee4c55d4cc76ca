// Package ctx provides a request context for storefront handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helper methods:
//
//	func ShowProduct(c *ctx.Context) {
//	    slug := c.Param("slug")
//	    c.Success(view)
//	}
//
//	router.Get("/products/{slug}", "products.show", ctx.Wrap(ShowProduct))
package ctx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/electrostore/pkg/auth"
	"github.com/shashiranjanraj/electrostore/pkg/bind"
	"github.com/shashiranjanraj/electrostore/pkg/middleware"
	"github.com/shashiranjanraj/electrostore/pkg/response"
	"github.com/shashiranjanraj/electrostore/pkg/session"
	"github.com/shashiranjanraj/electrostore/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return new(Context) },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/products/{slug}" → c.Param("slug")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter. ok is false for anything that
// is not a positive integer.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string { return middleware.ClientIP(c.R) }

// IsXHR reports whether the request was made via XMLHttpRequest.
func (c *Context) IsXHR() bool {
	return c.R.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// WantsJSON reports whether the caller expects JSON rather than a redirect.
func (c *Context) WantsJSON() bool { return response.WantsJSON(c.R) }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Identity & session ───────────────────────────────────────────────────────

// UserID returns the authenticated user's id, or 0 for guests.
func (c *Context) UserID() uint { return auth.UserID(c.R.Context()) }

// Session returns the request's session.
func (c *Context) Session() *session.Session { return session.FromCtx(c.R) }

// Flash queues a message for the next rendered page.
func (c *Context) Flash(level, text string) { c.Session().AddFlash(level, text) }

// ─── Binding / Validation ─────────────────────────────────────────────────────

// Bind decodes a JSON or form body (by Content-Type) into dest and runs
// validation. On failure it writes a 400 or 422 response and returns false.
//
//	var in CheckoutInput
//	if !c.Bind(&in) {
//	    return // response already sent
//	}
func (c *Context) Bind(dest any) bool {
	errs, err := bind.Auto(c.R, dest)
	return c.handleBind(errs, err)
}

// BindJSON is Bind restricted to JSON bodies.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	return c.handleBind(errs, err)
}

// ShouldBind decodes and validates without writing a response.
func (c *Context) ShouldBind(dest any) (map[string]string, error) {
	return bind.Auto(c.R, dest)
}

func (c *Context) handleBind(errs map[string]string, err error) bool {
	if err != nil {
		msg := err.Error()
		if errors.Is(err, bind.ErrMalformed) {
			msg = "Invalid data"
		}
		c.Error(http.StatusBadRequest, msg)
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// Success sends a 200 JSON envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

// Page sends a 200 envelope carrying a page view model plus page-wide meta
// (flash messages, cart badge).
func (c *Context) Page(data any, meta any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data, Meta: meta})
}

// Created answers a mutation that made a new record (an account, an order)
// with 201 and body as-is, matching the {success,message} replies.
func (c *Context) Created(body any) {
	c.JSON(http.StatusCreated, body)
}

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Message: message})
}

// ValidationError sends a 422 Unprocessable Entity with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, response.Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(message ...string) {
	c.Error(http.StatusUnauthorized, first(message, "Unauthorized"))
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	c.Error(http.StatusNotFound, first(message, "Not found"))
}

// Redirect sends a 302 to url.
func (c *Context) Redirect(url string) {
	http.Redirect(c.W, c.R, url, http.StatusFound)
}

func first(msgs []string, def string) string {
	if len(msgs) > 0 {
		return msgs[0]
	}
	return def
}
