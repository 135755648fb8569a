package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/form"
	"transitcrm/internal/http/middleware"
	"transitcrm/internal/services"
	"transitcrm/internal/session"
	"transitcrm/internal/utils"
	"transitcrm/internal/web"
)

// Console carries the services behind the page handlers.
type Console struct {
	Sessions   *session.Manager
	Auth       services.AuthService
	Customers  services.CustomerService
	Cards      services.CardService
	Trips      services.TripService
	Cases      services.CaseService
	Taps       services.TapService
	Disputes   services.DisputeService
	Search     services.SearchService
	Register   services.RegisterService
	Statements services.StatementService
}

func ctxOf(c *gin.Context) context.Context {
	return c.Request.Context()
}

func logEvent(c *gin.Context, module, action, msg string) {
	utils.LogEvent(middleware.GetRequestID(c), module, action, msg)
}

// basePage fills the layout fields; notices arrive through the query string
// of the redirect that followed a mutation.
func basePage(c *gin.Context, title, active string, data any) web.Page {
	s := session.From(c)
	return web.Page{
		Title:         title,
		Active:        active,
		UserName:      s.UserName,
		Authenticated: s.Authenticated(),
		Notice:        c.Query("notice"),
		Error:         c.Query("error"),
		Data:          data,
	}
}

func renderPage(c *gin.Context, status int, name string, page web.Page) {
	c.HTML(status, name, page)
}

func redirectWithMessage(c *gin.Context, path, key, message string) {
	u := url.URL{Path: path}
	if message != "" {
		q := u.Query()
		q.Set(key, message)
		u.RawQuery = q.Encode()
	}
	c.Redirect(http.StatusSeeOther, u.String())
}

func redirectNotice(c *gin.Context, path, message string) {
	redirectWithMessage(c, path, "notice", message)
}

func redirectError(c *gin.Context, path, message string) {
	redirectWithMessage(c, path, "error", message)
}

// isFormError reports a validation failure that should re-render the form.
func isFormError(err error) bool {
	var fe *form.Errors
	return errors.As(err, &fe)
}

func formView(f *form.Form, action, cancel string) form.View {
	v := f.View()
	v.Action = action
	v.Cancel = cancel
	return v
}

// bindListQuery reads the search box; malformed values fall back to no filter.
func bindListQuery(c *gin.Context) services.Query {
	var q services.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		return services.Query{}
	}
	return q
}

// openPosted opens f on base and copies the posted schema fields over it.
// A nil base opens a create form. Edits pass the stored record so fields
// outside the schema reach the API unchanged.
func openPosted(c *gin.Context, f *form.Form, base form.Record) {
	f.Open(base)
	f.SetAll(c.GetPostForm)
}

// outcome is the toast pair of one mutation.
type outcome struct {
	ok   string
	fail string
}

// submit runs the open form against save. Success and API failures answer
// with a redirect to path; validation failures call rerender so the form
// comes back with its messages.
func submit(c *gin.Context, f *form.Form, path string, msgs outcome, save func(form.Record) error, rerender func()) {
	err := f.Submit(save)
	switch {
	case err == nil:
		redirectNotice(c, path, msgs.ok)
	case isFormError(err):
		rerender()
	default:
		redirectError(c, path, msgs.fail)
	}
}

// itemPath joins a collection path and an escaped id.
func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
