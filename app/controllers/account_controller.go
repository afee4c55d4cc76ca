package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/resources"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/auth"
	"github.com/shashiranjanraj/electrostore/pkg/ctx"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/middleware"
	"github.com/shashiranjanraj/electrostore/pkg/resource"
	"github.com/shashiranjanraj/electrostore/pkg/session"
)

type AccountController struct{ base }

func NewAccountController(svc *services.Services) *AccountController {
	return &AccountController{base{svc: svc}}
}

// RegisterForm → GET /register/
func (h *AccountController) RegisterForm(c *ctx.Context) {
	h.page(c, resource.Map{"form": services.RegisterInput{}})
}

// Register → POST /register/
func (h *AccountController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if _, err := c.ShouldBind(&in); err != nil {
		c.Error(http.StatusBadRequest, "Invalid data")
		return
	}

	u, err := h.svc.Accounts.Register(c.Context(), in)
	if err != nil {
		h.fail(c, err, "/register/")
		return
	}

	token, ok := h.login(c, u)
	if !ok {
		return
	}
	if c.WantsJSON() {
		c.Created(resource.Map{
			"success": true,
			"message": "Registration successful! Welcome to ElectroStore!",
			"user":    resources.User(u),
			"token":   token,
		})
		return
	}
	c.Flash(session.LevelSuccess, "Registration successful! Welcome to ElectroStore!")
	c.Redirect("/")
}

// LoginForm → GET /login/?next=
func (h *AccountController) LoginForm(c *ctx.Context) {
	h.page(c, resource.Map{"next": safeNext(c.Query("next"), "/")})
}

// Login → POST /login/
func (h *AccountController) Login(c *ctx.Context) {
	var in services.LoginInput
	if _, err := c.ShouldBind(&in); err != nil {
		c.Error(http.StatusBadRequest, "Invalid data")
		return
	}
	next := safeNext(c.Query("next"), safeNext(c.R.PostFormValue("next"), "/"))

	u, err := h.svc.Accounts.Authenticate(c.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			if c.WantsJSON() {
				c.Unauthorized(userMessage(err))
				return
			}
			c.Flash(session.LevelError, userMessage(err))
			c.Redirect("/login/?next=" + url.QueryEscape(next))
			return
		}
		h.fail(c, err, "/login/")
		return
	}

	token, ok := h.login(c, u)
	if !ok {
		return
	}
	if c.WantsJSON() {
		c.JSON(http.StatusOK, resource.Map{
			"success":  true,
			"token":    token,
			"user":     resources.User(u),
			"redirect": next,
		})
		return
	}
	c.Redirect(next)
}

// login binds u to a fresh session id and issues a bearer token.
func (h *AccountController) login(c *ctx.Context, u models.User) (string, bool) {
	sess := c.Session()
	sess.Regenerate()
	sess.Set(middleware.SessionUserKey, u.ID)

	token, err := auth.GenerateToken(u.ID, u.Username)
	if err != nil {
		logger.WithCtx(c.Context()).Error("token generation failed", "user_id", u.ID, "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
		return "", false
	}
	logger.WithCtx(c.Context()).Info("user logged in", "user_id", u.ID)
	return token, true
}

// Logout → POST /logout/
func (h *AccountController) Logout(c *ctx.Context) {
	c.Session().Invalidate()
	if c.WantsJSON() {
		c.JSON(http.StatusOK, resource.Map{"success": true, "message": "Logged out"})
		return
	}
	c.Redirect("/")
}

// Profile → GET /profile/
func (h *AccountController) Profile(c *ctx.Context) {
	u, err := h.svc.Accounts.Profile(c.Context(), c.UserID())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	orders, err := h.svc.Orders.Count(c.Context(), u.ID)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.page(c, resource.Map{"user": resources.User(u), "order_count": orders})
}

// UpdateProfile → POST /profile/
func (h *AccountController) UpdateProfile(c *ctx.Context) {
	var in services.ProfileInput
	if _, err := c.ShouldBind(&in); err != nil {
		c.Error(http.StatusBadRequest, "Invalid data")
		return
	}

	u, err := h.svc.Accounts.UpdateProfile(c.Context(), c.UserID(), in)
	if err != nil {
		h.fail(c, err, "/profile/")
		return
	}
	h.reply(c, true, session.LevelSuccess, "Profile updated successfully!", "/profile/", resource.Map{
		"user": resources.User(u),
	})
}
