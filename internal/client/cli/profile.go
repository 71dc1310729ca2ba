package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/common"
)

// Profile opens the personal view. "profile edit" changes the username or
// email, "profile password" changes the password.
func (a *App) Profile(ctx context.Context, args []string) error {
	if _, ok := a.visit(ctx, "/personal"); !ok {
		return nil
	}
	if len(args) == 0 {
		return a.showProfile(ctx)
	}
	switch args[0] {
	case "edit":
		return a.editProfile(ctx)
	case "password":
		return a.changePassword(ctx)
	default:
		return usage("profile [edit|password]")
	}
}

func (a *App) showProfile(ctx context.Context) error {
	u, err := a.session.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	printlnFn(describeUser(u))

	// The count is informational; a failure does not spoil the view.
	if n, err := a.users.ArticleCount(ctx); err == nil {
		printlnFn(fmt.Sprintf("Articles: %d", n.ArticleCount))
	}
	return nil
}

func (a *App) editProfile(ctx context.Context) error {
	cur, _ := a.session.UserInfo()

	name, err := GetDefault(a.reader, "Username", cur.Username, a.out)
	if err != nil {
		return err
	}
	email, err := GetDefault(a.reader, "Email", cur.Email, a.out)
	if err != nil {
		return err
	}

	var in models.ProfileInput
	if name != cur.Username {
		in.Username = name
	}
	if email != cur.Email {
		in.Email = email
	}
	if in == (models.ProfileInput{}) {
		printlnFn("Nothing to change.")
		return nil
	}

	u, err := a.session.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}
	printlnFn("Profile updated:", describeUser(u))
	return nil
}

func (a *App) changePassword(ctx context.Context) error {
	oldPw, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPw)
	newPw, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPw)

	if err := a.session.ChangePassword(ctx, models.PasswordChange{
		OldPassword: string(oldPw),
		NewPassword: string(newPw),
	}); err != nil {
		return err
	}
	printlnFn("Password changed.")
	return nil
}
