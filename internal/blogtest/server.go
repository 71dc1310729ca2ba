// Package blogtest runs an in-process fake of the blog REST backend for
// tests. It speaks the same {code, message, data} envelope, issues HS256
// JWTs carrying user_id and username, and answers 401 on a missing or
// invalid bearer token.
package blogtest

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

// Prefix is the path every route lives under.
const Prefix = "/api"

type account struct {
	user     models.User
	password string
}

type failure struct {
	status  int
	message string
}

type Server struct {
	srv *httptest.Server

	mu         sync.Mutex
	secret     []byte
	tokenTTL   time.Duration
	nextID     int
	accounts   map[int]*account
	articles   []models.Article
	categories []models.Category
	comments   []models.Comment
	uploads    map[string][]byte
	calls      map[string]int
	failures   map[string]failure

	registerIssuesToken bool
	loginIncludesUser   bool
}

// New starts a server that is closed when tb finishes.
func New(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		secret:   newSecret(),
		tokenTTL: time.Hour,
		nextID:   1,
		accounts: map[int]*account{},
		uploads:  map[string][]byte{},
		calls:    map[string]int{},
		failures: map[string]failure{},
	}
	s.srv = httptest.NewServer(s.routes())
	tb.Cleanup(s.srv.Close)
	return s
}

func newSecret() []byte {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return b
}

// URL is the base URL the api client should use, prefix included.
func (s *Server) URL() string {
	return s.srv.URL + Prefix
}

func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix(Prefix).Subrouter()
	api.Use(s.record, s.injectFailures)

	api.HandleFunc("/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/articles", s.listArticles).Methods(http.MethodGet)
	api.HandleFunc("/articles/{id:[0-9]+}", s.getArticle).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", s.getCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}/articles", s.categoryArticles).Methods(http.MethodGet)

	authed := api.PathPrefix("").Subrouter()
	authed.Use(s.authenticate)
	authed.HandleFunc("/users/me", s.me).Methods(http.MethodGet)
	authed.HandleFunc("/users/me", s.updateMe).Methods(http.MethodPut)
	authed.HandleFunc("/users/me/articles/count", s.articleCount).Methods(http.MethodGet)
	authed.HandleFunc("/change-password/{id:[0-9]+}", s.changePassword).Methods(http.MethodPost)
	authed.HandleFunc("/articles", s.createArticle).Methods(http.MethodPost)
	authed.HandleFunc("/articles/{id:[0-9]+}", s.updateArticle).Methods(http.MethodPut)
	authed.HandleFunc("/articles/{id:[0-9]+}", s.deleteArticle).Methods(http.MethodDelete)
	authed.HandleFunc("/articles/{id:[0-9]+}/comments", s.listComments).Methods(http.MethodGet)
	authed.HandleFunc("/articles/{id:[0-9]+}/comments", s.createComment).Methods(http.MethodPost)
	authed.HandleFunc("/comments/{id:[0-9]+}", s.updateComment).Methods(http.MethodPut)
	authed.HandleFunc("/comments/{id:[0-9]+}", s.deleteComment).Methods(http.MethodDelete)
	authed.HandleFunc("/uploads", s.upload).Methods(http.MethodPost)

	admin := authed.PathPrefix("").Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}", s.deleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id:[0-9]+}/role", s.updateRole).Methods(http.MethodPut)
	admin.HandleFunc("/categories", s.createCategory).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id:[0-9]+}", s.updateCategory).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{id:[0-9]+}", s.deleteCategory).Methods(http.MethodDelete)

	return r
}

// routeKey names a call as "METHOD /template", e.g. "GET /articles/{id}".
func routeKey(r *http.Request) string {
	tpl := r.URL.Path
	if route := mux.CurrentRoute(r); route != nil {
		if t, err := route.GetPathTemplate(); err == nil {
			tpl = t
		}
	}
	tpl = strings.TrimPrefix(tpl, Prefix)
	tpl = strings.ReplaceAll(tpl, ":[0-9]+", "")
	return r.Method + " " + tpl
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[routeKey(r)]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r)
		s.mu.Lock()
		f, ok := s.failures[key]
		if ok {
			delete(s.failures, key)
		}
		s.mu.Unlock()
		if ok {
			sendError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Calls reports how many times a route was hit, keyed like "GET /users/me"
// or "PUT /articles/{id}".
func (s *Server) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

// FailNext makes the next call to route key answer status with message.
func (s *Server) FailNext(key string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = failure{status: status, message: message}
}

// IssueTokenOnRegister makes /register answer with a token and the new user.
// By default it answers 201 with no data, like the production backend.
func (s *Server) IssueTokenOnRegister(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registerIssuesToken = v
}

// IncludeUserOnLogin adds the user next to the token on /login.
func (s *Server) IncludeUserOnLogin(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginIncludesUser = v
}

// RotateSecret invalidates every token issued so far.
func (s *Server) RotateSecret() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = newSecret()
}

// AddUser creates an account directly.
func (s *Server) AddUser(username, password, email string, roleID int) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, password, email, roleID)
}

func (s *Server) addUserLocked(username, password, email string, roleID int) models.User {
	u := models.User{ID: s.id(), Username: username, Email: email, RoleID: roleID, Status: 1}
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

// Token mints a valid token for user id.
func (s *Server) Token(userID int) string {
	return s.mint(userID, s.tokenTTL)
}

// ExpiredToken mints a token whose exp already passed.
func (s *Server) ExpiredToken(userID int) string {
	return s.mint(userID, -time.Minute)
}

func (s *Server) mint(userID int, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.mintLocked(userID, ttl)
	if err != nil {
		panic(fmt.Sprintf("blogtest: mint token: %v", err))
	}
	return tok
}

type claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *Server) mintLocked(userID int, ttl time.Duration) (string, error) {
	var username string
	if a, ok := s.accounts[userID]; ok {
		username = a.user.Username
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Issuer:    "blogtest",
		},
	})
	return token.SignedString(s.secret)
}

func (s *Server) userIDFromToken(raw string) (int, error) {
	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()

	c := &claims{}
	token, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return c.UserID, nil
}

// SeedCategory stores c with a fresh id.
func (s *Server) SeedCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.categories = append(s.categories, c)
	return c
}

// SeedArticle stores a with a fresh id. A category given by name only is
// created on the fly.
func (s *Server) SeedArticle(a models.Article) models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	a.Category = s.categoryLocked(a.Category.Name)
	s.articles = append(s.articles, a)
	return a
}

func (s *Server) SeedComment(c models.Comment) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	s.comments = append(s.comments, c)
	return c
}

// Article returns the stored article id, if any.
func (s *Server) Article(id int) (models.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.articles, id)
	if i < 0 {
		return models.Article{}, false
	}
	return s.articles[i], true
}

// Upload returns the bytes stored under path by /uploads.
func (s *Server) Upload(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.uploads[path]
	return b, ok
}

func (s *Server) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) categoryLocked(name string) models.Category {
	if name == "" {
		return models.Category{}
	}
	for _, c := range s.categories {
		if c.Name == name {
			return c
		}
	}
	c := models.Category{ID: s.id(), Name: name}
	s.categories = append(s.categories, c)
	return c
}

func indexOf[T models.Entity](items []T, id int) int {
	for i, it := range items {
		if it.GetID() == id {
			return i
		}
	}
	return -1
}
