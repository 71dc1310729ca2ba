package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/goblog/internal/blogtest"
	"github.com/dmitrijs2005/goblog/internal/client/config"
	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/client/router"
	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appEnv struct {
	srv    *blogtest.Server
	cfg    *config.Config
	alice  models.User
	output *[]string
}

func newAppEnv(t *testing.T) *appEnv {
	t.Helper()
	srv := blogtest.New(t)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = srv.URL()
	cfg.Timeout = 2 * time.Second
	cfg.DatabasePath = filepath.Join(t.TempDir(), "state", "blog.db")

	return &appEnv{
		srv:    srv,
		cfg:    cfg,
		alice:  srv.AddUser("alice", "secret1", "alice@example.com", models.RoleUser),
		output: capturePrint(t),
	}
}

func (e *appEnv) newApp(t *testing.T) *App {
	t.Helper()
	a, err := NewApp(context.Background(), e.cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	a.out = io.Discard
	return a
}

// run feeds lines to the REPL of a.
func (e *appEnv) run(a *App, lines ...string) {
	a.reader = script(lines...)
	runREPL(context.Background(), a, a.getStatus, a.reader)
}

func (e *appEnv) printed() string {
	return strings.Join(*e.output, "\n")
}

func (e *appEnv) login(t *testing.T, a *App, username, password string) {
	t.Helper()
	_, err := a.session.Login(context.Background(), models.LoginForm{Username: username, Password: password})
	require.NoError(t, err)
}

// passwords makes the terminal prompt answer with pws in order.
func passwords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	i := 0
	readPassword = func(int) ([]byte, error) {
		if i >= len(pws) {
			return nil, errors.New("no password left")
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func storedToken(t *testing.T, a *App) string {
	t.Helper()
	tok, err := a.creds.Token(context.Background())
	require.NoError(t, err)
	return tok
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = "not a url"
	cfg.DatabasePath = filepath.Join(t.TempDir(), "blog.db")

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
}

func TestNewApp_CreatesDatabaseDirectory(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)

	_, err := os.Stat(e.cfg.DatabasePath)
	require.NoError(t, err)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "(/)", a.getStatus())
}

func TestApp_BrowsesPublicViews(t *testing.T) {
	e := newAppEnv(t)
	art := e.srv.SeedArticle(models.Article{Title: "Hello Go", Content: "Body text", Author: "alice", Category: models.Category{Name: "Go"}})
	e.srv.SeedComment(models.Comment{ArticleID: art.ID, Content: "hidden", Author: "bob"})
	a := e.newApp(t)

	e.run(a,
		"posts",
		"post "+strconv.Itoa(art.ID),
		"categories",
		"categories "+strconv.Itoa(art.Category.ID),
		"go /nowhere",
		"exit",
	)

	out := e.printed()
	assert.Contains(t, out, "Posts, page 1:")
	assert.Contains(t, out, "Hello Go by alice in Go")
	assert.Contains(t, out, "Body text")
	assert.Contains(t, out, "Log in to read the comments.")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "#"+strconv.Itoa(art.Category.ID)+" Go")
	assert.Contains(t, out, "Page not found: /nowhere")
	assert.NotContains(t, out, "Please log in first")
	assert.Equal(t, 0, e.srv.Calls("GET /articles/{id}/comments"))
	assert.Equal(t, 1, e.srv.Calls("GET /categories/{id}/articles"))
}

func TestApp_ProtectedViewReturnsAfterLogin(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	passwords(t, "secret1")

	e.run(a,
		"addpost",
		"login",
		"alice",
		"My first post",
		"Travel",
		"Line one",
		"Line two",
		"",
		"",
		"exit",
	)

	out := e.printed()
	assert.Contains(t, out, "Please log in first")
	assert.Contains(t, out, "Logged in as alice")
	assert.Contains(t, out, "Created post")

	cur := a.nav.Current()
	assert.Equal(t, "/add-post", cur.Path)
	assert.Equal(t, 1, e.srv.Calls("POST /articles"))

	items := a.blogs.Items()
	require.Len(t, items, 1)
	stored, ok := e.srv.Article(items[0].ID)
	require.True(t, ok)
	assert.Equal(t, "My first post", stored.Title)
	assert.Equal(t, "Line one\nLine two", stored.Content)
	assert.Equal(t, "alice", stored.Author)
	assert.Equal(t, "Travel", stored.Category.Name)
	assert.NotEmpty(t, storedToken(t, a))
}

func TestApp_ResumesStoredSession(t *testing.T) {
	e := newAppEnv(t)
	first := e.newApp(t)
	require.NoError(t, first.creds.Save(context.Background(), e.srv.Token(e.alice.ID), "alice"))
	require.NoError(t, first.Close())

	a := e.newApp(t)
	a.reader = script("whoami", "exit")
	a.Run(context.Background())

	out := e.printed()
	assert.Contains(t, out, "Welcome back, alice")
	assert.Contains(t, out, "alice <alice@example.com>")
	assert.Equal(t, "/home", a.nav.Current().Path)
	assert.Equal(t, 1, e.srv.Calls("GET /users/me"))
}

func TestApp_RejectedStoredCredentialSendsToLogin(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	require.NoError(t, a.creds.Save(context.Background(), e.srv.Token(e.alice.ID), "alice"))
	e.srv.RotateSecret()

	a.resume(context.Background())

	assert.False(t, a.isLoggedIn())
	assert.Empty(t, storedToken(t, a))
	assert.Contains(t, e.printed(), "invalid token")

	cur := a.nav.Current()
	assert.Equal(t, router.LoginPath, cur.Route.Path)
	assert.Equal(t, "/", cur.Query.Get("redirect"))
}

func TestApp_ExpiredStoredCredentialFailsWithoutNetwork(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	require.NoError(t, a.creds.Save(context.Background(), e.srv.ExpiredToken(e.alice.ID), "alice"))

	a.resume(context.Background())

	assert.False(t, a.isLoggedIn())
	assert.Empty(t, storedToken(t, a))
	assert.Contains(t, e.printed(), common.SessionExpiredNotice)
	assert.Equal(t, 0, e.srv.Calls("GET /users/me"))
}

func TestApp_UnauthorizedResponseEndsSessionAndLoginReturns(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	e.login(t, a, "alice", "secret1")
	e.srv.RotateSecret()
	passwords(t, "secret1")

	e.run(a, "profile", "exit")

	assert.Contains(t, e.printed(), "Error: invalid token")
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, storedToken(t, a))
	cur := a.nav.Current()
	assert.Equal(t, router.LoginPath, cur.Route.Path)
	assert.Equal(t, "/personal", cur.Query.Get("redirect"))

	*e.output = nil
	e.run(a, "login", "alice", "exit")

	out := e.printed()
	assert.Contains(t, out, "Logged in as alice")
	assert.Contains(t, out, "alice <alice@example.com>")
	assert.Contains(t, out, "Articles: 0")
	assert.Equal(t, "/personal", a.nav.Current().Path)
}

func TestApp_RegisterThenLogin(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	passwords(t, "secret9", "secret9", "secret9")

	e.run(a,
		"register",
		"bobby",
		"bob@example.com",
		"",
		"login",
		"bobby",
		"whoami",
		"exit",
	)

	out := e.printed()
	assert.Contains(t, out, "Registered. Please log in")
	assert.Contains(t, out, "Logged in as bobby")
	assert.Contains(t, out, "bobby <bob@example.com>")
	assert.Equal(t, "/home", a.nav.Current().Path)
}

func TestApp_RegisterMismatchedPasswordsStaysLocal(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	passwords(t, "secret9", "secret8")

	e.run(a, "register", "bobby", "bob@example.com", "", "exit")

	assert.Contains(t, e.printed(), "confirmpassword does not match")
	assert.Equal(t, 0, e.srv.Calls("POST /register"))
}

func TestApp_CommentsAndDelete(t *testing.T) {
	e := newAppEnv(t)
	art := e.srv.SeedArticle(models.Article{Title: "Post", Content: "x", Author: "alice", Category: models.Category{Name: "Go"}})
	a := e.newApp(t)
	e.login(t, a, "alice", "secret1")
	id := strconv.Itoa(art.ID)

	e.run(a,
		"comment "+id,
		"Nice post",
		"post "+id,
		"delpost "+id,
		"n",
		"delpost "+id,
		"y",
		"exit",
	)

	out := e.printed()
	assert.Contains(t, out, "Added comment")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, ": Nice post")
	assert.Contains(t, out, "Deleted post "+id)
	assert.Equal(t, 1, e.srv.Calls("DELETE /articles/{id}"))
	_, exists := e.srv.Article(art.ID)
	assert.False(t, exists)
}

func TestApp_ActionsNeedLogin(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)

	e.run(a, "comment 1", "delcomment 1", "delpost 1", "upload x.png", "addcategory", "profile", "exit")

	assert.Equal(t, 6, strings.Count(e.printed(), "Please log in first"))
	assert.Equal(t, 0, e.srv.Calls("POST /articles/{id}/comments"))
	assert.Equal(t, 0, e.srv.Calls("DELETE /articles/{id}"))
}

func TestApp_EditPostKeepsEmptyAnswers(t *testing.T) {
	e := newAppEnv(t)
	art := e.srv.SeedArticle(models.Article{Title: "Old", Content: "Old body", Author: "alice", Category: models.Category{Name: "Go"}})
	a := e.newApp(t)
	e.login(t, a, "alice", "secret1")

	e.run(a, "editpost "+strconv.Itoa(art.ID), "New title", "", "", "exit")

	assert.Contains(t, e.printed(), "Updated post")
	stored, ok := e.srv.Article(art.ID)
	require.True(t, ok)
	assert.Equal(t, "New title", stored.Title)
	assert.Equal(t, "Old body", stored.Content)
	assert.Equal(t, "Go", stored.Category.Name)
}

func TestApp_ProfileEditAndPassword(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	e.login(t, a, "alice", "secret1")
	passwords(t, "secret1", "secret2")

	e.run(a, "profile edit", "", "alice@blog.example", "profile password", "exit")

	out := e.printed()
	assert.Contains(t, out, "Profile updated: alice <alice@blog.example>")
	assert.Contains(t, out, "Password changed.")
	u, _ := a.session.UserInfo()
	assert.Equal(t, "alice@blog.example", u.Email)
	assert.Equal(t, 1, e.srv.Calls("POST /change-password/{id}"))
}

func TestApp_AdminCommands(t *testing.T) {
	e := newAppEnv(t)
	e.srv.AddUser("root", "rootpw1", "root@example.com", models.RoleAdmin)
	a := e.newApp(t)

	e.login(t, a, "alice", "secret1")
	e.run(a, "users", "addcategory", "exit")
	assert.Equal(t, 2, strings.Count(e.printed(), "Admin access required."))
	assert.Equal(t, 0, e.srv.Calls("GET /users"))

	require.NoError(t, a.session.Logout(context.Background()))
	e.login(t, a, "root", "rootpw1")
	*e.output = nil
	e.run(a,
		"users",
		"users role "+strconv.Itoa(e.alice.ID)+" 1",
		"addcategory",
		"Travel",
		"Trips and places",
		"categories",
		"exit",
	)

	out := e.printed()
	assert.Contains(t, out, "alice <alice@example.com>")
	assert.Contains(t, out, "root <root@example.com> (admin)")
	assert.Contains(t, out, "now has role 1")
	assert.Contains(t, out, "Created category")
	assert.Contains(t, out, "Travel: Trips and places")
}

func TestApp_Upload(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	e.login(t, a, "alice", "secret1")

	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	e.run(a, "upload "+path, "exit")

	var uploaded string
	for _, line := range *e.output {
		if s, ok := strings.CutPrefix(line, "Uploaded: "); ok {
			uploaded = s
		}
	}
	require.NotEmpty(t, uploaded)
	assert.True(t, strings.HasSuffix(uploaded, "-cover.png"))
	data, ok := e.srv.Upload(uploaded)
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestApp_LogoutReturnsToStart(t *testing.T) {
	e := newAppEnv(t)
	a := e.newApp(t)
	e.login(t, a, "alice", "secret1")

	e.run(a, "logout", "whoami", "exit")

	out := e.printed()
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "Not logged in.")
	assert.Equal(t, router.RootPath, a.nav.Current().Path)
	assert.Empty(t, storedToken(t, a))
}
