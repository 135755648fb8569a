package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/form"
	"transitcrm/internal/http/middleware"
	"transitcrm/internal/session"
)

const (
	msgLoginFailed  = "Invalid email or password"
	msgSignupFailed = "Signup failed. Please try again."
)

// GET /login
func (h *Console) LoginPage(c *gin.Context) {
	f := h.Auth.LoginForm()
	f.Open(nil)
	renderPage(c, http.StatusOK, "login", basePage(c, "Login", "/login", f.View()))
}

// POST /login
func (h *Console) LoginSubmit(c *gin.Context) {
	f := h.Auth.LoginForm()
	h.authenticate(c, f, "login", "Login", msgLoginFailed, func(rec form.Record) (string, string, error) {
		resp, err := h.Auth.Login(ctxOf(c), rec)
		return resp.AccessToken, resp.UserName, err
	})
}

// GET /signup
func (h *Console) SignupPage(c *gin.Context) {
	f := h.Auth.SignupForm()
	f.Open(nil)
	renderPage(c, http.StatusOK, "signup", basePage(c, "Sign Up", "/signup", f.View()))
}

// POST /signup signs the new operator in right away.
func (h *Console) SignupSubmit(c *gin.Context) {
	f := h.Auth.SignupForm()
	h.authenticate(c, f, "signup", "Sign Up", msgSignupFailed, func(rec form.Record) (string, string, error) {
		resp, err := h.Auth.Signup(ctxOf(c), rec)
		return resp.AccessToken, resp.UserName, err
	})
}

func (h *Console) authenticate(c *gin.Context, f *form.Form, name, title, failure string, exchange func(form.Record) (string, string, error)) {
	openPosted(c, f, nil)
	err := f.Submit(func(rec form.Record) error {
		token, user, err := exchange(rec)
		if err != nil {
			return err
		}
		s, err := h.Sessions.Login(c.Writer, c.Request, token, user)
		if err != nil {
			return err
		}
		session.Attach(c, s)
		return nil
	})
	if err == nil {
		c.Redirect(http.StatusSeeOther, middleware.HomePath)
		return
	}

	// the password input never carries a value back
	page := basePage(c, title, "/"+name, f.View())
	if isFormError(err) {
		renderPage(c, http.StatusUnprocessableEntity, name, page)
		return
	}
	logEvent(c, "auth", name+"_failed", err.Error())
	page.Error = failure
	renderPage(c, http.StatusUnauthorized, name, page)
}

// POST /logout
func (h *Console) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c.Writer, c.Request); err != nil {
		logEvent(c, "auth", "logout_failed", err.Error())
	}
	session.Attach(c, &session.Session{})
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}
