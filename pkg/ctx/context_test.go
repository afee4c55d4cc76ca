package ctx_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/electrostore/pkg/auth"
	appctx "github.com/shashiranjanraj/electrostore/pkg/ctx"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Page(map[string]any{"id": 1}, map[string]any{"cart_total": 3})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"data":{"id":1}`) || !strings.Contains(body, `"cart_total":3`) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	var ok bool
	r.Get("/cart/remove/{item_id}", appctx.Wrap(func(c *appctx.Context) {
		got, ok = c.ParamUint("item_id")
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart/remove/12", nil))
	if !ok || got != 12 {
		t.Errorf("expected 12, got %d (%v)", got, ok)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart/remove/abc", nil))
	if ok {
		t.Error("expected non-numeric id to be rejected")
	}
}

func TestBindForm(t *testing.T) {
	rec := httptest.NewRecorder()
	body := url.Values{"first_name": {"Ada"}, "email": {"ada@example.com"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			FirstName string `json:"first_name" form:"first_name" validate:"required"`
			Email     string `json:"email"      form:"email"      validate:"required,email"`
		}
		if !c.Bind(&input) {
			t.Error("expected Bind to succeed")
			return
		}
		if input.FirstName != "Ada" {
			t.Errorf("expected Ada, got %s", input.FirstName)
		}
		c.Success(nil)
	})(rec, req)
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name string `json:"name" validate:"required"`
		}
		if c.BindJSON(&input) {
			t.Error("expected BindJSON to fail")
		}
	})(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestBindMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":`))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Quantity int `json:"quantity"`
		}
		c.Bind(&input)
	})(rec, req)

	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Invalid data") {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestUserID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), 9))

	appctx.Wrap(func(c *appctx.Context) {
		if c.UserID() != 9 {
			t.Errorf("expected 9, got %d", c.UserID())
		}
		c.Success(nil)
	})(rec, req)
}

func TestWantsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	appctx.Wrap(func(c *appctx.Context) {
		if !c.IsXHR() || !c.WantsJSON() {
			t.Error("expected XHR request to want JSON")
		}
	})(httptest.NewRecorder(), req)
}

func TestRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/remove/1", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.Redirect("/cart/")
	})(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/cart/" {
		t.Errorf("unexpected redirect %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestCreatedKeepsReplyShape(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		if ip := c.ClientIP(); ip != "203.0.113.7" {
			t.Errorf("expected forwarded client ip, got %q", ip)
		}
		c.Created(map[string]any{"success": true, "message": "Order #1 placed successfully!"})
	})(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.HasPrefix(body, `{"message":"Order #1 placed successfully!","success":true}`) {
		t.Errorf("unexpected body: %s", body)
	}
}
