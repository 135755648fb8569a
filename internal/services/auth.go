package services

import (
	"context"
	"strings"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
)

// AuthService exchanges console credentials for an API access token.
type AuthService struct {
	API apiclient.API
}

func (s AuthService) LoginForm() *form.Form {
	return form.New("Login", []form.Field{
		form.EmailField("Email"),
		form.Text("password", "Password"),
	})
}

func (s AuthService) SignupForm() *form.Form {
	return form.New("Sign Up", []form.Field{
		form.Text("name", "Name"),
		form.EmailField("Email"),
		form.Text("password", "Password"),
	})
}

func (s AuthService) Login(ctx context.Context, rec form.Record) (models.AuthResponse, error) {
	email := strings.TrimSpace(rec.String("email"))
	resp, err := s.API.Login(ctx, models.LoginRequest{Email: email, Password: rec.String("password")})
	if err != nil {
		logEvent(ctx, "auth", "login_failed", "email="+email)
		return models.AuthResponse{}, err
	}
	logEvent(ctx, "auth", "login", "email="+email)
	if resp.UserName == "" {
		resp.UserName = email
	}
	return resp, nil
}

func (s AuthService) Signup(ctx context.Context, rec form.Record) (models.AuthResponse, error) {
	email := strings.TrimSpace(rec.String("email"))
	resp, err := s.API.Signup(ctx, models.SignupRequest{
		Email:    email,
		Password: rec.String("password"),
		Name:     strings.TrimSpace(rec.String("name")),
	})
	if err != nil {
		logEvent(ctx, "auth", "signup_failed", "email="+email)
		return models.AuthResponse{}, err
	}
	logEvent(ctx, "auth", "signup", "email="+email)
	if resp.UserName == "" {
		resp.UserName = strings.TrimSpace(rec.String("name"))
	}
	return resp, nil
}
