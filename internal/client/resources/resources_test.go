package resources

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/goblog/internal/blogtest"
	"github.com/dmitrijs2005/goblog/internal/client/api"
	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken struct{ token string }

func (s *staticToken) Token(context.Context) (string, error) { return s.token, nil }
func (s *staticToken) Clear(context.Context) error          { s.token = ""; return nil }

func setup(t *testing.T, role int) (*blogtest.Server, *api.Client, models.User) {
	t.Helper()
	srv := blogtest.New(t)
	u := srv.AddUser("alice", "secret1", "alice@example.com", role)
	c, err := api.New(srv.URL(), 2*time.Second, &staticToken{token: srv.Token(u.ID)})
	require.NoError(t, err)
	t.Cleanup(c.CloseIdleConnections)
	return srv, c, u
}

func TestArticles_CRUD(t *testing.T) {
	srv, c, _ := setup(t, models.RoleUser)
	articles := NewArticles(c)
	ctx := context.Background()

	created, err := articles.Create(ctx, models.ArticleInput{
		Title: "Hello", Content: "World", Author: "alice", CategoryName: "go",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Hello", created.Title, "filled from input")
	assert.Equal(t, "go", created.Category.Name)

	got, err := articles.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "World", got.Content)
	assert.NotZero(t, got.Category.ID)

	updated, err := articles.Update(ctx, created.ID, models.ArticleInput{
		Title: "Hello again", Content: "World", Author: "alice", CategoryName: "go",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Hello again", updated.Title)

	stored, ok := srv.Article(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Hello again", stored.Title)

	require.NoError(t, articles.Delete(ctx, created.ID))
	_, err = articles.Get(ctx, created.ID)
	require.ErrorIs(t, err, common.ErrApplication)
	assert.Equal(t, "article not found", err.Error())
}

func TestArticles_ListQuery(t *testing.T) {
	srv, c, _ := setup(t, models.RoleUser)
	for _, title := range []string{"go tips", "rust tips", "go news"} {
		cat := strings.Fields(title)[0]
		srv.SeedArticle(models.Article{Title: title, Content: "x", Category: models.Category{Name: cat}})
	}
	articles := NewArticles(c)

	all, err := articles.List(context.Background(), ArticleQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := articles.List(context.Background(), ArticleQuery{Search: "news"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "go news", found[0].Title)

	page, err := articles.List(context.Background(), ArticleQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)

	byCat, err := articles.List(context.Background(), ArticleQuery{CategoryID: all[0].Category.ID})
	require.NoError(t, err)
	assert.Len(t, byCat, 2)
}

func TestArticleQuery_Values(t *testing.T) {
	assert.Empty(t, ArticleQuery{}.values())
	v := ArticleQuery{Page: 1, PageSize: 10, CategoryID: 3, Search: "go"}.values()
	assert.Equal(t, "category_id=3&page=1&page_size=10&search=go", v.Encode())
}

func TestArticles_CreateValidatesLocally(t *testing.T) {
	srv, c, _ := setup(t, models.RoleUser)
	_, err := NewArticles(c).Create(context.Background(), models.ArticleInput{Title: "no content"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, srv.Calls("POST /articles"))
}

func TestCategories(t *testing.T) {
	srv, c, _ := setup(t, models.RoleAdmin)
	categories := NewCategories(c)
	ctx := context.Background()

	cat, err := categories.Create(ctx, models.CategoryInput{Name: "go", Description: "gophers"})
	require.NoError(t, err)
	require.NotZero(t, cat.ID)
	assert.Equal(t, "gophers", cat.Description)

	srv.SeedArticle(models.Article{Title: "t", Content: "c", Category: models.Category{Name: "go"}})
	arts, err := categories.Articles(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, arts, 1)

	upd, err := categories.Update(ctx, cat.ID, models.CategoryInput{Name: "golang"})
	require.NoError(t, err)
	assert.Equal(t, models.Category{ID: cat.ID, Name: "golang"}, upd)

	got, err := categories.Get(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "golang", got.Name)

	list, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, categories.Delete(ctx, cat.ID))
	list, err = categories.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategories_CreateNeedsAdmin(t *testing.T) {
	_, c, _ := setup(t, models.RoleUser)
	_, err := NewCategories(c).Create(context.Background(), models.CategoryInput{Name: "go"})
	require.ErrorIs(t, err, common.ErrApplication)

	var re *common.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusForbidden, re.Status)
	assert.Equal(t, "forbidden", re.Message)
}

func TestComments(t *testing.T) {
	srv, c, _ := setup(t, models.RoleUser)
	art := srv.SeedArticle(models.Article{Title: "t", Content: "c"})
	comments := NewComments(c)
	ctx := context.Background()

	cm, err := comments.Create(ctx, art.ID, models.CommentInput{Content: "nice", Author: "alice"})
	require.NoError(t, err)
	assert.NotZero(t, cm.ID)
	assert.Equal(t, art.ID, cm.ArticleID)

	upd, err := comments.Update(ctx, cm.ID, art.ID, models.CommentInput{Content: "very nice", Author: "alice"})
	require.NoError(t, err)
	assert.Equal(t, cm.ID, upd.ID)
	assert.Equal(t, "very nice", upd.Content)

	list, err := comments.ListByArticle(ctx, art.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "very nice", list[0].Content)

	require.NoError(t, comments.Delete(ctx, cm.ID))
	list, err = comments.ListByArticle(ctx, art.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUsers_LoginAndMe(t *testing.T) {
	srv, c, u := setup(t, models.RoleUser)
	users := NewUsers(c)
	ctx := context.Background()

	res, err := users.Login(ctx, models.LoginForm{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Nil(t, res.User)

	srv.IncludeUserOnLogin(true)
	res, err = users.Login(ctx, models.LoginForm{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, u.ID, res.User.ID)

	_, err = users.Login(ctx, models.LoginForm{Username: "alice", Password: "wrong-pass"})
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "invalid username or password", err.Error())
}

func TestUsers_Register(t *testing.T) {
	srv := blogtest.New(t)
	c, err := api.New(srv.URL(), 2*time.Second, nil)
	require.NoError(t, err)
	defer c.CloseIdleConnections()
	users := NewUsers(c)

	avatar := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(avatar, []byte("png"), 0o600))

	res, err := users.Register(context.Background(), models.RegisterForm{
		Username: "carol", Email: "carol@example.com", Password: "secret1",
		ConfirmPassword: "secret1", AvatarPath: avatar,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Token, "backend does not sign in on register")

	_, err = users.Register(context.Background(), models.RegisterForm{
		Username: "carol", Email: "carol@example.com", Password: "secret1",
		ConfirmPassword: "secret1",
	})
	require.ErrorIs(t, err, common.ErrApplication)
	assert.Equal(t, "username already taken", err.Error())

	_, err = users.Register(context.Background(), models.RegisterForm{
		Username: "dave", Email: "dave@example.com", Password: "secret1",
		ConfirmPassword: "secret1", AvatarPath: filepath.Join(t.TempDir(), "missing.png"),
	})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUsers_ProfileOperations(t *testing.T) {
	_, c, u := setup(t, models.RoleUser)
	users := NewUsers(c)
	ctx := context.Background()

	upd, err := users.UpdateMe(ctx, models.ProfileInput{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", upd.Email)

	me, err := users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", me.Email)

	require.NoError(t, users.ChangePassword(ctx, u.ID, models.PasswordChange{OldPassword: "secret1", NewPassword: "secret2"}))
	err = users.ChangePassword(ctx, u.ID, models.PasswordChange{OldPassword: "secret1", NewPassword: "secret3"})
	require.ErrorIs(t, err, common.ErrApplication)

	count, err := users.ArticleCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleCount{Username: "alice"}, count)
}

func TestUsers_Admin(t *testing.T) {
	srv, c, _ := setup(t, models.RoleAdmin)
	other := srv.AddUser("bob", "secret1", "bob@example.com", models.RoleUser)
	users := NewUsers(c)
	ctx := context.Background()

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, users.UpdateRole(ctx, other.ID, models.RoleGuest))
	list, err = users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, list[1].RoleID)

	require.NoError(t, users.Delete(ctx, other.ID))
	list, err = users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUploads(t *testing.T) {
	srv, c, _ := setup(t, models.RoleUser)
	res, err := NewUploads(c).Upload(context.Background(), "a.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	require.NotEmpty(t, res.Path)
	assert.Equal(t, res.Path, res.Location())

	data, ok := srv.Upload(res.Path)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
}
