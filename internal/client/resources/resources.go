package resources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/goblog/internal/client/api"
)

// Caller is the part of the api adapter the resource clients use.
type Caller interface {
	Request(ctx context.Context, method, path string, body any, query url.Values) (*api.Response, error)
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

func itemPath(collection string, id int, sub ...string) string {
	p := collection + "/" + strconv.Itoa(id)
	for _, s := range sub {
		p += "/" + s
	}
	return p
}
