package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/ports"
)

type stubAuthService struct {
	registered  *domain.Principal
	registerErr error
	login       *ports.LoginResult
	loginErr    error

	gotUsername string
	gotPassword string
}

func (s *stubAuthService) Register(_ context.Context, username, password string) (*domain.Principal, error) {
	s.gotUsername, s.gotPassword = username, password
	return s.registered, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (*ports.LoginResult, error) {
	s.gotUsername, s.gotPassword = username, password
	return s.login, s.loginErr
}

type stubUserService struct {
	users     []domain.Principal
	listErr   error
	deleteErr error
	deleted   []int64
}

func (s *stubUserService) ListUsers(_ context.Context) ([]domain.Principal, error) {
	return s.users, s.listErr
}

func (s *stubUserService) DeleteUser(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

func (s *stubUserService) SetRole(_ context.Context, _, _ string) (*domain.Principal, error) {
	return nil, nil
}

func (s *stubUserService) CreateAdmin(_ context.Context, _, _ string) (*domain.Principal, error) {
	return nil, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
