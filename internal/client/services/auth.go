// Package services contains application services for the chat client.
// This file defines the authentication service: sign-in, registration,
// session restore on startup, profile editing and email verification.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sanguischat/internal/client/api"
	"github.com/dmitrijs2005/sanguischat/internal/client/models"
	"github.com/dmitrijs2005/sanguischat/internal/client/session"
	"github.com/dmitrijs2005/sanguischat/internal/logging"
)

var (
	ErrNotSignedIn             = errors.New("not signed in")
	ErrInvalidVerificationLink = errors.New("invalid verification link")
	ErrMissingField            = errors.New("required field is empty")
)

// AuthAPI is the part of the remote API the auth service uses.
// *api.Client satisfies it.
type AuthAPI interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	GoogleLogin(ctx context.Context, idToken string) (*api.AuthResult, error)
	Register(ctx context.Context, r models.Registration) error
	UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error)
	ResendVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Restore: on startup, resolve the stored credential into a user, or drop it.
//   - Login / GoogleLogin: establish a session from the backend's {token,user}.
//   - Register: create an account without signing in.
//   - Logout: tear the session down.
//   - UpdateProfile: replace the user record with the backend's copy.
//   - ResendVerification: mail a new verification link to the current user.
//   - VerifyEmail: confirm an address with the token from the link.
type AuthService interface {
	Restore(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GoogleLogin(ctx context.Context, idToken string) (*models.User, error)
	Register(ctx context.Context, r models.Registration) error
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error)
	ResendVerification(ctx context.Context) error
	VerifyEmail(ctx context.Context, token string) error
	CurrentUser() *models.User
}

type authService struct {
	api     AuthAPI
	session *session.Session
	log     logging.Logger
}

func NewAuthService(a AuthAPI, s *session.Session, log logging.Logger) AuthService {
	return &authService{api: a, session: s, log: log}
}

// Restore fetches the user behind a stored credential. Any failure drops the
// credential. Without a credential it returns (nil, nil) and sends nothing.
func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	if !a.session.HasCredential() {
		return nil, nil
	}
	u, err := a.api.Me(ctx)
	if err != nil {
		a.log.Warn(ctx, "stored credential rejected", "error", err)
		if terr := a.session.Teardown(ctx); terr != nil {
			a.log.Error(ctx, "session teardown failed", "error", terr)
		}
		return nil, err
	}
	a.session.SetUser(u)
	return u, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password", ErrMissingField)
	}
	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return a.establish(ctx, res)
}

func (a *authService) GoogleLogin(ctx context.Context, idToken string) (*models.User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: id token", ErrMissingField)
	}
	res, err := a.api.GoogleLogin(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return a.establish(ctx, res)
}

func (a *authService) establish(ctx context.Context, res *api.AuthResult) (*models.User, error) {
	if err := a.session.Establish(ctx, res.Token, res.User); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "signed in", "user_id", res.User.ID)
	return a.session.User(), nil
}

func (a *authService) Register(ctx context.Context, r models.Registration) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return fmt.Errorf("%w: name, email and password", ErrMissingField)
	}
	return a.api.Register(ctx, r)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Teardown(ctx)
}

func (a *authService) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	if a.session.User() == nil {
		return nil, ErrNotSignedIn
	}
	u, err := a.api.UpdateProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	a.session.SetUser(u)
	return a.session.User(), nil
}

func (a *authService) ResendVerification(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		return ErrNotSignedIn
	}
	return a.api.ResendVerification(ctx, u.Email)
}

func (a *authService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidVerificationLink
	}
	return a.api.VerifyEmail(ctx, token)
}

func (a *authService) CurrentUser() *models.User {
	return a.session.User()
}
