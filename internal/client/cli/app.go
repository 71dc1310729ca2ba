package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/goblog/internal/client/api"
	"github.com/dmitrijs2005/goblog/internal/client/config"
	"github.com/dmitrijs2005/goblog/internal/client/credentials"
	"github.com/dmitrijs2005/goblog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/goblog/internal/client/resources"
	"github.com/dmitrijs2005/goblog/internal/client/router"
	"github.com/dmitrijs2005/goblog/internal/client/storage"
	"github.com/dmitrijs2005/goblog/internal/client/store"
	"github.com/dmitrijs2005/goblog/internal/client/uploads"
	"github.com/dmitrijs2005/goblog/internal/filex"
	"github.com/dmitrijs2005/goblog/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	client     *api.Client
	creds      *credentials.Store
	users      *resources.Users
	sink       uploads.Sink
	session    *store.Session
	blogs      *store.Blogs
	categories *store.Categories
	comments   *store.Comments
	nav        *router.Navigator

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and builds the client stack described by
// c. The returned App owns the database; call Close (or Run) to release it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := logging.NewText(os.Stderr, c.Verbose)

	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, err
	}
	db, err := storage.InitDatabase(ctx, dbPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", dbPath, "error", err)
		return nil, err
	}

	creds := credentials.NewStore(metadata.NewSQLiteRepository(db))

	client, err := api.New(c.BaseURL, c.Timeout, creds, api.WithLogger(logger))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	articles := resources.NewArticles(client)
	categories := resources.NewCategories(client)
	users := resources.NewUsers(client)

	sink, err := uploads.New(ctx, c, resources.NewUploads(client))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("upload backend: %w", err)
	}

	session := store.NewSession(users, creds, client, logger)
	nav := router.NewNavigator(router.NewGuard(session, creds, logger), logger)
	session.SetNavigator(nav.Go)

	// A 401 anywhere ends the session and sends the user to sign in.
	client.OnUnauthorized(func(ctx context.Context) {
		session.Invalidate()
		nav.RedirectToLogin(ctx)
	})

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		client:     client,
		creds:      creds,
		users:      users,
		sink:       sink,
		session:    session,
		blogs:      store.NewBlogs(articles, categories, logger),
		categories: store.NewCategories(categories, logger),
		comments:   store.NewComments(resources.NewComments(client), logger),
		nav:        nav,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

// Run resumes a stored session, then serves the REPL until the user quits
// or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to the blog CLI (type 'help' for commands)")
	a.resume(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases idle connections and the database.
func (a *App) Close() error {
	a.client.CloseIdleConnections()
	return a.db.Close()
}

// resume restores the session of a previous run, if its credential is
// still accepted.
func (a *App) resume(ctx context.Context) {
	if a.session.InitializeFromStoredCredential(ctx) {
		u, _ := a.session.UserInfo()
		printlnFn("Welcome back,", u.Username)
		a.nav.Navigate(ctx, store.LandingPath)
		return
	}
	if msg := a.session.Error(); msg != "" {
		printlnFn(msg)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

func (a *App) isAdmin() bool {
	u, ok := a.session.UserInfo()
	return ok && u.IsAdmin()
}

func (a *App) getStatus() string {
	path := a.nav.Current().Path
	if u, ok := a.session.UserInfo(); ok {
		return fmt.Sprintf("(%s %s)", u.Username, path)
	}
	return fmt.Sprintf("(%s)", path)
}

// visit navigates to target through the guard. It reports false, after
// telling the user why, when the guard sent them elsewhere.
func (a *App) visit(ctx context.Context, target string) (router.Location, bool) {
	res := a.nav.Navigate(ctx, target)
	if res.Redirected {
		if res.Decision.Notice != "" {
			printlnFn(res.Decision.Notice)
		}
		printlnFn("Please log in first (type 'login').")
		return res.Location, false
	}
	if res.Location.Route.Path == router.NotFoundPath {
		printlnFn("Page not found:", target)
		return res.Location, false
	}
	return res.Location, true
}

// Go opens the view at path and shows it.
func (a *App) Go(ctx context.Context, path string) error {
	loc, ok := a.visit(ctx, path)
	if !ok {
		return nil
	}
	return a.show(ctx, loc)
}

// Home opens the start view: the personal home when logged in.
func (a *App) Home(ctx context.Context) error {
	if a.isLoggedIn() {
		return a.Go(ctx, store.LandingPath)
	}
	return a.Go(ctx, router.RootPath)
}

// show renders the view loc points at.
func (a *App) show(ctx context.Context, loc router.Location) error {
	switch loc.Route.Name {
	case "home":
		return a.showPosts(ctx, 1)
	case "homeLoggedIn":
		u, _ := a.session.UserInfo()
		printlnFn("Hello,", u.Username)
		return a.showPosts(ctx, 1)
	case "blog":
		return a.showPosts(ctx, pageOf(loc))
	case "blogDetail":
		id, err := loc.ID()
		if err != nil {
			return err
		}
		return a.showPost(ctx, id)
	case "login":
		return a.loginForm(ctx, loc)
	case "register":
		return a.registerForm(ctx)
	case "personal":
		return a.showProfile(ctx)
	case "addPost":
		return a.addPostForm(ctx)
	case "editPost":
		id, err := loc.ID()
		if err != nil {
			return err
		}
		return a.editPostForm(ctx, id)
	case "categories":
		return a.showCategories(ctx)
	case "adminUsers":
		return a.showUsers(ctx)
	default:
		printlnFn("Page not found:", loc.Path)
		return nil
	}
}

// requireLogin is for actions that are not views of their own.
func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return true
	}
	printlnFn("Please log in first (type 'login').")
	return false
}
