package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/client/router"
	"github.com/dmitrijs2005/goblog/internal/client/store"
	"github.com/dmitrijs2005/goblog/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Login opens the login view. When the user was sent there by the guard,
// the pending redirect is kept so that a successful login returns to the
// view they asked for.
func (a *App) Login(ctx context.Context) error {
	if cur := a.nav.Current(); cur.Route.Path == router.LoginPath {
		return a.loginForm(ctx, cur)
	}
	return a.Go(ctx, router.LoginPath)
}

// loginForm prompts for a username and password and signs in. The password
// byte slice is wiped before returning.
func (a *App) loginForm(ctx context.Context, loc router.Location) error {
	if u, ok := a.session.UserInfo(); ok {
		printlnFn("Already logged in as", u.Username)
		return nil
	}

	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Login(ctx, models.LoginForm{Username: userName, Password: string(password)})
	if err != nil {
		return err
	}
	printlnFn("Logged in as", u.Username)

	target := router.RedirectTarget(loc, store.LandingPath)
	if target == store.LandingPath || router.Resolve(target).Route.Path == router.LoginPath {
		return nil
	}
	return a.Go(ctx, target)
}

// Register opens the registration view.
func (a *App) Register(ctx context.Context) error {
	return a.Go(ctx, "/register")
}

func (a *App) registerForm(ctx context.Context) error {
	if u, ok := a.session.UserInfo(); ok {
		printlnFn("Already logged in as", u.Username)
		return nil
	}

	userName, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	avatar, err := getSimpleText(a.reader, "Avatar image file", a.out)
	if err != nil {
		return err
	}

	signedIn, err := a.session.Register(ctx, models.RegisterForm{
		Username:        userName,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
		AvatarPath:      avatar,
	})
	if err != nil {
		return err
	}

	if signedIn {
		printlnFn("Welcome,", userName)
		a.nav.Navigate(ctx, store.LandingPath)
		return nil
	}
	printlnFn("Registered. Please log in (type 'login').")
	a.nav.Navigate(ctx, router.LoginPath)
	return nil
}

// Logout removes the stored credential and returns to the start view.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out.")
	a.nav.Navigate(ctx, router.RootPath)
	return nil
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	u, ok := a.session.UserInfo()
	if !ok {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(describeUser(u))
	return nil
}

func describeUser(u models.User) string {
	var b strings.Builder
	b.WriteString(u.Username)
	if u.Email != "" {
		b.WriteString(" <" + u.Email + ">")
	}
	if u.IsAdmin() {
		b.WriteString(" (admin)")
	}
	return b.String()
}
