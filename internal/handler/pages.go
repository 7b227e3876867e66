package handler

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the HTML shells for the client-rendered pages. The
// shells are identical apart from which page the frontend boots; all data
// flows through the JSON API afterwards. Access control happens in the
// session gate before these run.
type PageHandler struct {
	tmpl *template.Template
}

// NewPageHandler parses the embedded shell template.
func NewPageHandler() *PageHandler {
	return &PageHandler{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/page.gohtml")),
	}
}

type pageData struct {
	Title string
	Page  string
}

func (h *PageHandler) page(c echo.Context, title, page string) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.tmpl.ExecuteTemplate(c.Response(), "page.gohtml", pageData{Title: title, Page: page})
}

// Login serves GET /login.
func (h *PageHandler) Login(c echo.Context) error {
	return h.page(c, "Sign in", "login")
}

// Signup serves GET /signup.
func (h *PageHandler) Signup(c echo.Context) error {
	return h.page(c, "Create account", "signup")
}

// ForgotPassword serves GET /forgot-password.
func (h *PageHandler) ForgotPassword(c echo.Context) error {
	return h.page(c, "Reset password", "forgot-password")
}

// Dashboard serves GET /dashboard and everything below it; the frontend
// router handles the sub-paths.
func (h *PageHandler) Dashboard(c echo.Context) error {
	return h.page(c, "Dashboard", "dashboard")
}
