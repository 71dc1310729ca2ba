package store

import (
	"context"

	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/client/resources"
	"github.com/dmitrijs2005/goblog/internal/logging"
)

// ArticleAPI is implemented by resources.Articles.
type ArticleAPI interface {
	List(ctx context.Context, q resources.ArticleQuery) ([]models.Article, error)
	Get(ctx context.Context, id int) (models.Article, error)
	Create(ctx context.Context, in models.ArticleInput) (models.Article, error)
	Update(ctx context.Context, id int, in models.ArticleInput) (models.Article, error)
	Delete(ctx context.Context, id int) error
}

// CategoryAPI is implemented by resources.Categories.
type CategoryAPI interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id int) (models.Category, error)
	Create(ctx context.Context, in models.CategoryInput) (models.Category, error)
	Update(ctx context.Context, id int, in models.CategoryInput) (models.Category, error)
	Delete(ctx context.Context, id int) error
	Articles(ctx context.Context, id int) ([]models.Article, error)
}

// CommentAPI is implemented by resources.Comments.
type CommentAPI interface {
	ListByArticle(ctx context.Context, articleID int) ([]models.Comment, error)
	Create(ctx context.Context, articleID int, in models.CommentInput) (models.Comment, error)
	Update(ctx context.Context, id, articleID int, in models.CommentInput) (models.Comment, error)
	Delete(ctx context.Context, id int) error
}

// Blogs is the articles container.
type Blogs struct {
	*Container[models.Article]
	api        ArticleAPI
	categories CategoryAPI
}

func NewBlogs(api ArticleAPI, categories CategoryAPI, logger logging.Logger) *Blogs {
	return &Blogs{Container: NewContainer[models.Article]("blogs", logger), api: api, categories: categories}
}

func (b *Blogs) Fetch(ctx context.Context, q resources.ArticleQuery) error {
	return b.FetchWith(ctx, func(ctx context.Context) ([]models.Article, error) {
		return b.api.List(ctx, q)
	})
}

// FetchByCategory replaces the list with the articles of one category.
func (b *Blogs) FetchByCategory(ctx context.Context, categoryID int) error {
	return b.FetchWith(ctx, func(ctx context.Context) ([]models.Article, error) {
		return b.categories.Articles(ctx, categoryID)
	})
}

func (b *Blogs) FetchOne(ctx context.Context, id int) (models.Article, error) {
	return b.FetchOneWith(ctx, func(ctx context.Context) (models.Article, error) {
		return b.api.Get(ctx, id)
	})
}

func (b *Blogs) Create(ctx context.Context, in models.ArticleInput) (models.Article, error) {
	return b.CreateWith(ctx, func(ctx context.Context) (models.Article, error) {
		return b.api.Create(ctx, in)
	})
}

func (b *Blogs) Update(ctx context.Context, id int, in models.ArticleInput) (models.Article, error) {
	return b.UpdateWith(ctx, func(ctx context.Context) (models.Article, error) {
		return b.api.Update(ctx, id, in)
	})
}

func (b *Blogs) Delete(ctx context.Context, id int) error {
	return b.DeleteWith(ctx, id, func(ctx context.Context) error {
		return b.api.Delete(ctx, id)
	})
}

type Categories struct {
	*Container[models.Category]
	api CategoryAPI
}

func NewCategories(api CategoryAPI, logger logging.Logger) *Categories {
	return &Categories{Container: NewContainer[models.Category]("categories", logger), api: api}
}

func (c *Categories) Fetch(ctx context.Context) error {
	return c.FetchWith(ctx, c.api.List)
}

func (c *Categories) FetchOne(ctx context.Context, id int) (models.Category, error) {
	return c.FetchOneWith(ctx, func(ctx context.Context) (models.Category, error) {
		return c.api.Get(ctx, id)
	})
}

func (c *Categories) Create(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	return c.CreateWith(ctx, func(ctx context.Context) (models.Category, error) {
		return c.api.Create(ctx, in)
	})
}

func (c *Categories) Update(ctx context.Context, id int, in models.CategoryInput) (models.Category, error) {
	return c.UpdateWith(ctx, func(ctx context.Context) (models.Category, error) {
		return c.api.Update(ctx, id, in)
	})
}

func (c *Categories) Delete(ctx context.Context, id int) error {
	return c.DeleteWith(ctx, id, func(ctx context.Context) error {
		return c.api.Delete(ctx, id)
	})
}

// Comments holds the comments of one article at a time.
type Comments struct {
	*Container[models.Comment]
	api CommentAPI
}

func NewComments(api CommentAPI, logger logging.Logger) *Comments {
	return &Comments{Container: NewContainer[models.Comment]("comments", logger), api: api}
}

func (c *Comments) FetchByArticle(ctx context.Context, articleID int) error {
	return c.FetchWith(ctx, func(ctx context.Context) ([]models.Comment, error) {
		return c.api.ListByArticle(ctx, articleID)
	})
}

func (c *Comments) Create(ctx context.Context, articleID int, in models.CommentInput) (models.Comment, error) {
	return c.CreateWith(ctx, func(ctx context.Context) (models.Comment, error) {
		return c.api.Create(ctx, articleID, in)
	})
}

func (c *Comments) Update(ctx context.Context, id, articleID int, in models.CommentInput) (models.Comment, error) {
	return c.UpdateWith(ctx, func(ctx context.Context) (models.Comment, error) {
		return c.api.Update(ctx, id, articleID, in)
	})
}

func (c *Comments) Delete(ctx context.Context, id int) error {
	return c.DeleteWith(ctx, id, func(ctx context.Context) error {
		return c.api.Delete(ctx, id)
	})
}
