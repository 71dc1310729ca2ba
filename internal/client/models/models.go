// Package models holds the blog API data types as the client sees them.
package models

import "time"

// Role identifiers used by the backend.
const (
	RoleAdmin = 1
	RoleUser  = 2
	RoleGuest = 3
)

// Entity is anything a resource container can hold: it has a server-assigned id.
type Entity interface {
	GetID() int
}

// User is the profile returned by /users/me. The client stores and displays
// it but otherwise treats it as opaque.
type User struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	ImageData       string `json:"image_data,omitempty"`
	RoleID          int    `json:"role_id"`
	Status          int    `json:"status"`
	BackgroundImage string `json:"background_image,omitempty"`
}

func (u User) GetID() int { return u.ID }

func (u User) IsAdmin() bool { return u.RoleID == RoleAdmin }

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c Category) GetID() int { return c.ID }

type Article struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"create_at"`
	ImagePath *string   `json:"image_path,omitempty"`
	Category  Category  `json:"category"`
	Views     int       `json:"views"`
}

func (a Article) GetID() int { return a.ID }

type Comment struct {
	ID        int       `json:"id"`
	ArticleID int       `json:"article_id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"create_at"`
}

func (c Comment) GetID() int { return c.ID }

// ArticleCount is the per-user statistic behind /users/me/articles/count.
type ArticleCount struct {
	Username     string `json:"username"`
	ArticleCount int    `json:"article_count"`
}

// AuthResult is the payload of /login and /register. Backends differ in what
// they send: some return only a token, some a token and the user.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// UploadResult describes a stored file.
type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
}

// Location returns the URL when known, the server path otherwise.
func (u UploadResult) Location() string {
	if u.URL != "" {
		return u.URL
	}
	return u.Path
}
