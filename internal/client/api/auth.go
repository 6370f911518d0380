package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/sanguischat/internal/client/models"
)

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, &u, "Failed to load user"); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, shapeErr("user without id")
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	return c.signIn(ctx, "/auth/login", in, "Login failed")
}

func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	in := struct {
		IDToken string `json:"idToken"`
	}{idToken}
	return c.signIn(ctx, "/auth/google", in, "Google login failed")
}

func (c *Client) signIn(ctx context.Context, path string, in any, fallback string) (*AuthResult, error) {
	var out AuthResult
	if err := c.call(ctx, http.MethodPost, path, in, &out, fallback); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, shapeErr("sign-in response without token or user")
	}
	return &out, nil
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, r models.Registration) error {
	return c.call(ctx, http.MethodPost, "/auth/register", r, nil, "Registration failed")
}

func (c *Client) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	var u models.User
	if err := c.call(ctx, http.MethodPut, "/auth/profile", p, &u, "Failed to update profile"); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, shapeErr("user without id")
	}
	return &u, nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) error {
	in := struct {
		Email string `json:"email"`
	}{email}
	return c.call(ctx, http.MethodPost, "/auth/resend-verification", in, nil, "Failed to send verification email")
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	path := "/auth/verify-email?token=" + url.QueryEscape(token)
	return c.call(ctx, http.MethodGet, path, nil, nil, "Email verification failed")
}
