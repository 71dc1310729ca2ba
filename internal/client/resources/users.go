package resources

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/goblog/internal/client/api"
	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/common"
)

type Users struct {
	api Caller
}

func NewUsers(c Caller) *Users {
	return &Users{api: c}
}

// Login exchanges a username and password for a token. The user is
// included only when the backend sends one.
func (u *Users) Login(ctx context.Context, form models.LoginForm) (models.AuthResult, error) {
	if err := models.Validate(form); err != nil {
		return models.AuthResult{}, err
	}
	var out models.AuthResult
	if err := u.api.Post(ctx, "/login", form, &out); err != nil {
		return models.AuthResult{}, err
	}
	return out, nil
}

// Register creates an account. The form goes out as multipart data with the
// avatar attached when AvatarPath is set. Token is empty when the backend
// does not sign the new user in.
func (u *Users) Register(ctx context.Context, form models.RegisterForm) (models.AuthResult, error) {
	if err := models.Validate(form); err != nil {
		return models.AuthResult{}, err
	}

	body := &api.Multipart{Fields: map[string]string{
		"username": form.Username,
		"email":    form.Email,
		"password": form.Password,
	}}
	if form.AvatarPath != "" {
		f, err := os.Open(form.AvatarPath)
		if err != nil {
			return models.AuthResult{}, common.NewValidationError(fmt.Sprintf("avatar: %v", err), err)
		}
		defer f.Close()
		body.Files = append(body.Files, api.FilePart{Field: "avatar", Filename: filepath.Base(form.AvatarPath), Content: f})
	}

	resp, err := u.api.Request(ctx, http.MethodPost, "/register", body, nil)
	if err != nil {
		return models.AuthResult{}, err
	}
	var out models.AuthResult
	if err := resp.Decode(&out); err != nil {
		return models.AuthResult{}, err
	}
	return out, nil
}

// Me fetches the profile of the token owner.
func (u *Users) Me(ctx context.Context) (models.User, error) {
	var out models.User
	if err := u.api.Get(ctx, "/users/me", nil, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

// UpdateMe changes the caller's profile. The result carries only what the
// server echoed back, or the submitted fields when it echoed nothing.
func (u *Users) UpdateMe(ctx context.Context, in models.ProfileInput) (models.User, error) {
	if err := models.Validate(in); err != nil {
		return models.User{}, err
	}
	out := models.User{Username: in.Username, Email: in.Email}
	if err := u.api.Put(ctx, "/users/me", in, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

func (u *Users) ChangePassword(ctx context.Context, userID int, in models.PasswordChange) error {
	if err := models.Validate(in); err != nil {
		return err
	}
	return u.api.Post(ctx, itemPath("/change-password", userID), in, nil)
}

func (u *Users) ArticleCount(ctx context.Context) (models.ArticleCount, error) {
	var out models.ArticleCount
	if err := u.api.Get(ctx, "/users/me/articles/count", nil, &out); err != nil {
		return models.ArticleCount{}, err
	}
	return out, nil
}

// List, Delete and UpdateRole need an admin token.

func (u *Users) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := u.api.Get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Users) Delete(ctx context.Context, id int) error {
	return u.api.Delete(ctx, itemPath("/users", id), nil)
}

func (u *Users) UpdateRole(ctx context.Context, id, roleID int) error {
	body := struct {
		RoleID int `json:"role_id"`
	}{RoleID: roleID}
	return u.api.Put(ctx, itemPath("/users", id, "role"), body, nil)
}
