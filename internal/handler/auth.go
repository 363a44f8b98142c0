package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/gti/booking-qa/internal/middleware"
	"github.com/gti/booking-qa/internal/models"
	"github.com/gti/booking-qa/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	templates   *template.Template
	validate    *validator.Validate
}

func NewAuthHandler(authService *service.AuthService, templates *template.Template) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		templates:   templates,
		validate:    validator.New(),
	}
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(c echo.Context) error {
	// If already authenticated, redirect to home
	if middleware.IsAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/")
	}

	data := map[string]interface{}{}

	return h.templates.ExecuteTemplate(c.Response().Writer, "login", data)
}

// Login checks credentials and creates a session
// @Summary Log in
// @Description Authenticate with username and password, returns a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse "Session token"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	// Handle both form and JSON
	if c.Request().Header.Get("Content-Type") == "application/json" {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
	} else {
		req.Username = c.FormValue("username")
		req.Password = c.FormValue("password")
	}

	if err := h.validate.Struct(req); err != nil {
		// For HTMX, return HTML partial
		if c.Request().Header.Get("HX-Request") == "true" {
			return c.HTML(http.StatusBadRequest, `<div class="text-red-500">Please enter your username and password</div>`)
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	_, token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if c.Request().Header.Get("HX-Request") == "true" {
				return c.HTML(http.StatusUnauthorized, `<div class="text-red-500">Invalid username or password</div>`)
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		if c.Request().Header.Get("HX-Request") == "true" {
			return c.HTML(http.StatusInternalServerError, `<div class="text-red-500">Failed to log in. Please try again.</div>`)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to log in"})
	}

	// Set session cookie
	middleware.SetSessionCookie(c, token)

	// For HTMX, redirect via header
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", "/")
		return c.String(http.StatusOK, "")
	}

	return c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

// Logout clears the session
// @Summary Log out
// @Description Delete the current session and clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil {
		h.authService.Logout(c.Request().Context(), cookie.Value)
	}

	middleware.ClearSessionCookie(c)

	// For HTMX, redirect
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", "/login")
		return c.String(http.StatusOK, "")
	}

	return c.JSON(http.StatusOK, map[string]string{"success": "logged out"})
}
