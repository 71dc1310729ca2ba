package resources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/goblog/internal/client/models"
)

// ArticleQuery filters GET /articles. Zero values are omitted.
type ArticleQuery struct {
	Page       int
	PageSize   int
	CategoryID int
	Search     string
}

func (q ArticleQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.Itoa(q.CategoryID))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

type Articles struct {
	api Caller
}

func NewArticles(c Caller) *Articles {
	return &Articles{api: c}
}

func (a *Articles) List(ctx context.Context, q ArticleQuery) ([]models.Article, error) {
	var out []models.Article
	if err := a.api.Get(ctx, "/articles", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Articles) Get(ctx context.Context, id int) (models.Article, error) {
	var out models.Article
	if err := a.api.Get(ctx, itemPath("/articles", id), nil, &out); err != nil {
		return models.Article{}, err
	}
	return out, nil
}

func (a *Articles) Create(ctx context.Context, in models.ArticleInput) (models.Article, error) {
	if err := models.Validate(in); err != nil {
		return models.Article{}, err
	}
	out := in.Article()
	if err := a.api.Post(ctx, "/articles", in, &out); err != nil {
		return models.Article{}, err
	}
	return out, nil
}

func (a *Articles) Update(ctx context.Context, id int, in models.ArticleInput) (models.Article, error) {
	if err := models.Validate(in); err != nil {
		return models.Article{}, err
	}
	out := in.Article()
	out.ID = id
	if err := a.api.Put(ctx, itemPath("/articles", id), in, &out); err != nil {
		return models.Article{}, err
	}
	return out, nil
}

func (a *Articles) Delete(ctx context.Context, id int) error {
	return a.api.Delete(ctx, itemPath("/articles", id), nil)
}
