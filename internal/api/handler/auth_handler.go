package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymtracker/auth-gateway/internal/api/metrics"
	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// The password is deliberately not validated here: the strength policy
// reports its own error from the service.
type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

// Login fails only with invalid credentials, so a blank username is left to
// the service rather than rejected here.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// principalResponse is the public view of an account.
type principalResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func toPrincipalResponse(p domain.Principal) principalResponse {
	return principalResponse{ID: p.ID, Username: p.Username, Role: p.Role.String()}
}

// Register creates a new ROLE_USER account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Username and password"
// @Success      200   {object}  principalResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toPrincipalResponse(*p))
}

// Login authenticates a user and returns a bearer token valid for 10 hours.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		ID:       res.Principal.ID,
		Username: res.Principal.Username,
		Role:     res.Principal.Role.String(),
		Token:    res.Token,
	})
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, domain.ErrWeakPassword):
		return "weak_password"
	default:
		return "error"
	}
}
