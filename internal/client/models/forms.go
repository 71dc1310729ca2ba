package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/go-playground/validator/v10"
)

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterForm is sent as multipart form data; AvatarPath, when set, names a
// local file attached as "avatar".
type RegisterForm struct {
	Username        string `json:"username" validate:"required,min=4"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
	AvatarPath      string `json:"-"`
}

type ArticleInput struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Content      string  `json:"content" validate:"required"`
	Author       string  `json:"author" validate:"required"`
	CategoryName string  `json:"category_name" validate:"required"`
	ImagePath    *string `json:"image_path,omitempty"`
}

// Article returns the entity the input describes, before the server assigns an id.
func (in ArticleInput) Article() Article {
	return Article{
		Title:     in.Title,
		Content:   in.Content,
		Author:    in.Author,
		ImagePath: in.ImagePath,
		Category:  Category{Name: in.CategoryName},
	}
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description"`
}

func (in CategoryInput) Category() Category {
	return Category{Name: in.Name, Description: in.Description}
}

type CommentInput struct {
	Content string `json:"content" validate:"required,max=2000"`
	Author  string `json:"author" validate:"required"`
}

func (in CommentInput) Comment(articleID int) Comment {
	return Comment{ArticleID: articleID, Content: in.Content, Author: in.Author}
}

type ProfileInput struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=4"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

type PasswordChange struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,nefield=OldPassword"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var tagMessages = map[string]string{
	"required": "is required",
	"min":      "is too short",
	"max":      "is too long",
	"email":    "must be a valid email address",
	"eqfield":  "does not match",
	"nefield":  "must differ from the old one",
}

// Validate runs the field checks of a form. Failures come back as a
// common.RequestError of kind validation; they never reach the network.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.NewValidationError(err.Error(), err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		text, ok := tagMessages[fe.Tag()]
		if !ok {
			text = "is invalid"
		}
		msgs = append(msgs, fmt.Sprintf("%s %s", strings.ToLower(fe.Field()), text))
	}
	return common.NewValidationError(strings.Join(msgs, "; "), err)
}
