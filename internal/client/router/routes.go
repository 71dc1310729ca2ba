// Package router names the client's views, resolves paths to them and guards
// navigation to the ones that need a logged-in user.
package router

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	RootPath     = "/"
	LoginPath    = "/login"
	NotFoundPath = "/404"
)

// Route is one view. Path segments starting with ':' are parameters.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
}

var Routes = []Route{
	{Name: "home", Path: RootPath},
	{Name: "homeLoggedIn", Path: "/home", RequiresAuth: true},
	{Name: "blog", Path: "/blog"},
	{Name: "blogDetail", Path: "/blog/:id"},
	{Name: "login", Path: LoginPath},
	{Name: "register", Path: "/register"},
	{Name: "personal", Path: "/personal", RequiresAuth: true},
	{Name: "addPost", Path: "/add-post", RequiresAuth: true},
	{Name: "editPost", Path: "/edit-post/:id", RequiresAuth: true},
	{Name: "categories", Path: "/categories"},
	{Name: "adminUsers", Path: "/admin/users", RequiresAuth: true},
	{Name: "notFound", Path: NotFoundPath},
}

// Location is a resolved navigation target.
type Location struct {
	Route  Route
	Path   string
	Params map[string]string
	Query  url.Values
}

// FullPath is the path with its query string, as used for redirect targets.
func (l Location) FullPath() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// ID returns the :id parameter.
func (l Location) ID() (int, error) {
	raw, ok := l.Params["id"]
	if !ok {
		return 0, fmt.Errorf("route %s has no id", l.Route.Name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// Resolve matches target against Routes. Unknown paths resolve to the
// not-found view.
func Resolve(target string) Location {
	u, err := url.Parse(target)
	if err != nil {
		return notFound()
	}
	path := u.Path
	if path == "" {
		path = RootPath
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	for _, r := range Routes {
		if params, ok := match(r.Path, path); ok {
			return Location{Route: r, Path: path, Params: params, Query: u.Query()}
		}
	}
	return notFound()
}

func notFound() Location {
	return Location{Route: Routes[len(Routes)-1], Path: NotFoundPath}
}

func match(pattern, path string) (map[string]string, bool) {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range ps {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if xs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = map[string]string{}
			}
			params[name] = xs[i]
			continue
		}
		if p != xs[i] {
			return nil, false
		}
	}
	return params, true
}

// LoginRedirect is the sign-in path that returns to fullPath afterwards.
func LoginRedirect(fullPath string) string {
	return LoginPath + "?redirect=" + url.QueryEscape(fullPath)
}

// RedirectTarget reads the return target of a login location, falling back
// to fallback when absent or not a local path.
func RedirectTarget(l Location, fallback string) string {
	r := l.Query.Get("redirect")
	if !strings.HasPrefix(r, "/") || strings.HasPrefix(r, "//") {
		return fallback
	}
	return r
}
