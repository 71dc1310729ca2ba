package resources

import (
	"context"

	"github.com/dmitrijs2005/goblog/internal/client/models"
)

type Categories struct {
	api Caller
}

func NewCategories(c Caller) *Categories {
	return &Categories{api: c}
}

func (c *Categories) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.api.Get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Categories) Get(ctx context.Context, id int) (models.Category, error) {
	var out models.Category
	if err := c.api.Get(ctx, itemPath("/categories", id), nil, &out); err != nil {
		return models.Category{}, err
	}
	return out, nil
}

func (c *Categories) Create(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	if err := models.Validate(in); err != nil {
		return models.Category{}, err
	}
	out := in.Category()
	if err := c.api.Post(ctx, "/categories", in, &out); err != nil {
		return models.Category{}, err
	}
	return out, nil
}

func (c *Categories) Update(ctx context.Context, id int, in models.CategoryInput) (models.Category, error) {
	if err := models.Validate(in); err != nil {
		return models.Category{}, err
	}
	out := in.Category()
	out.ID = id
	if err := c.api.Put(ctx, itemPath("/categories", id), in, &out); err != nil {
		return models.Category{}, err
	}
	return out, nil
}

func (c *Categories) Delete(ctx context.Context, id int) error {
	return c.api.Delete(ctx, itemPath("/categories", id), nil)
}

// Articles lists the articles filed under category id.
func (c *Categories) Articles(ctx context.Context, id int) ([]models.Article, error) {
	var out []models.Article
	if err := c.api.Get(ctx, itemPath("/categories", id, "articles"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
