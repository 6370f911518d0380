package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sanguischat/internal/client/models"
)

// getSimpleText, getPassword and friends are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

// Register prompts for the sign-up form and creates the account. The user
// still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	r := models.Registration{Name: name, Email: email, Password: password, Phone: phone}
	if err := a.auth.Register(ctx, r); err != nil {
		return err
	}
	a.println("Registration successful! Check your email to verify the address, then log in.")
	return nil
}

// Login prompts for email and password and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	was := a.isLoggedIn()
	u, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return a.failedSignIn(was, err)
	}
	return a.signedIn(ctx, u)
}

// GoogleLogin signs in with a Google ID token, prompting for it when not given.
func (a *App) GoogleLogin(ctx context.Context, idToken string) error {
	if idToken == "" {
		var err error
		idToken, err = getSimpleText(a.reader, "Paste Google ID token", a.out)
		if err != nil {
			return err
		}
	}
	was := a.isLoggedIn()
	u, err := a.auth.GoogleLogin(ctx, idToken)
	if err != nil {
		return a.failedSignIn(was, err)
	}
	return a.signedIn(ctx, u)
}

// failedSignIn reports a rejected sign-in. A 401 tears down any previous
// session, so its conversations are dropped too.
func (a *App) failedSignIn(wasSignedIn bool, err error) error {
	if wasSignedIn {
		return a.checkSession(err)
	}
	return err
}

func (a *App) signedIn(ctx context.Context, u *models.User) error {
	a.chat.Reset()
	a.println("Signed in as", u.Name, "<"+u.Email+">")
	if !u.EmailVerified {
		a.println("Your email is not verified. Use 'resend-verification' to get a new link.")
	}
	return a.List(ctx)
}

// Logout ends the session and forgets loaded conversations.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.chat.Reset()
	a.println("Signed out.")
	return nil
}

// Me prints the current user record.
func (a *App) Me(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	u := a.auth.CurrentUser()
	a.printf("Name:   %s\n", u.Name)
	a.printf("Email:  %s (%s)\n", u.Email, verified(u.EmailVerified))
	if u.Phone != "" {
		a.printf("Phone:  %s (%s)\n", u.Phone, verified(u.PhoneVerified))
	}
	if at, ok := a.since(ctx); ok {
		a.printf("Signed in: %s\n", at.Local().Format(time.DateTime))
	}
	if exp, ok := a.expiry(); ok {
		a.printf("Session expires: %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

func verified(ok bool) string {
	if ok {
		return "verified"
	}
	return "not verified"
}

// Profile edits name, email and phone. Empty input keeps the current value.
func (a *App) Profile(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	u := a.auth.CurrentUser()

	name, err := getTextWithDefault(a.reader, "Name", u.Name, a.out)
	if err != nil {
		return err
	}
	email, err := getTextWithDefault(a.reader, "Email", u.Email, a.out)
	if err != nil {
		return err
	}
	phone, err := getTextWithDefault(a.reader, "Phone", u.Phone, a.out)
	if err != nil {
		return err
	}

	_, err = a.auth.UpdateProfile(ctx, models.ProfileUpdate{Name: name, Email: email, Phone: phone})
	if err != nil {
		return a.checkSession(err)
	}
	a.println("Profile updated successfully!")
	return nil
}

// VerifyEmail confirms an address with the token from the verification link.
func (a *App) VerifyEmail(ctx context.Context, token string) error {
	if err := a.auth.VerifyEmail(ctx, token); err != nil {
		return err
	}
	a.println("Email verified successfully! You can now sign in.")
	return nil
}

// ResendVerification mails a new verification link to the current user.
func (a *App) ResendVerification(ctx context.Context) error {
	if err := a.auth.ResendVerification(ctx); err != nil {
		return a.checkSession(err)
	}
	a.println("Verification email sent!")
	return nil
}
