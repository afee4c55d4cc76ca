// Package session provides cookie sessions stored through pkg/cache (Redis,
// or the in-memory fallback).
//
// Usage (middleware):
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", 42)
//	sess.AddFlash(session.LevelSuccess, "Added to cart")
//
// Dirty sessions are saved automatically before the response headers go out.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/electrostore/config"
	"github.com/shashiranjanraj/electrostore/pkg/cache"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
)

// ------------------- Options -------------------

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		CookieName: "electrostore_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.IsProduction(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Session -------------------

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	changed bool
	// previous id to delete on save after Regenerate
	stale string
}

// newID generates a cryptographically random 32-byte hex session ID.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func storeKey(id string) string { return "session:" + id }

func load(ctx context.Context, id string) map[string]interface{} {
	var data map[string]interface{}
	if cache.Get(ctx, storeKey(id), &data) && data != nil {
		return data
	}
	return map[string]interface{}{}
}

// Set stores a value under key in the session.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString is a typed convenience getter.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	s2, ok := v.(string)
	return s2, ok
}

// GetUint is a typed convenience getter for ids.
func (s *Session) GetUint(key string) (uint, bool) {
	v, ok := s.data[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64: // JSON numbers unmarshal as float64
		if n <= 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, true
	case int:
		if n <= 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// Invalidate destroys the session (logout).
func (s *Session) Invalidate() {
	s.data = map[string]interface{}{}
	s.Regenerate()
}

// Regenerate issues a fresh id while keeping the data, so a login never
// reuses a pre-authentication id.
func (s *Session) Regenerate() {
	id, err := newID()
	if err != nil {
		return
	}
	if s.stale == "" {
		s.stale = s.id
	}
	s.id = id
	s.changed = true
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Save persists the session and writes the cookie to the response.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if s.stale != "" {
		_ = cache.Del(ctx, storeKey(s.stale))
		s.stale = ""
	}

	if err := cache.Set(ctx, storeKey(s.id), s.data, s.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// ------------------- Middleware -------------------

// saveWriter persists the session right before the first header write.
type saveWriter struct {
	http.ResponseWriter
	ctx   context.Context
	sess  *Session
	saved bool
}

func (sw *saveWriter) persist() {
	if sw.saved {
		return
	}
	sw.saved = true
	if err := sw.sess.Save(sw.ctx, sw.ResponseWriter); err != nil {
		logger.WithCtx(sw.ctx).Warn("session save failed", "error", err)
	}
}

func (sw *saveWriter) WriteHeader(code int) {
	sw.persist()
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *saveWriter) Write(b []byte) (int, error) {
	sw.persist()
	return sw.ResponseWriter.Write(b)
}

func (sw *saveWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{opts: opts}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				sess.id = cookie.Value
				sess.data = load(r.Context(), sess.id)
			} else {
				id, _ := newID()
				sess.id = id
				sess.data = map[string]interface{}{}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			sw := &saveWriter{ResponseWriter: w, ctx: ctx, sess: sess}
			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.persist()
		})
	}
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{id: id, data: map[string]interface{}{}, opts: DefaultOptions()}
}
