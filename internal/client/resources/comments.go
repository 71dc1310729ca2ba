package resources

import (
	"context"

	"github.com/dmitrijs2005/goblog/internal/client/models"
)

type Comments struct {
	api Caller
}

func NewComments(c Caller) *Comments {
	return &Comments{api: c}
}

func (c *Comments) ListByArticle(ctx context.Context, articleID int) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.api.Get(ctx, itemPath("/articles", articleID, "comments"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Comments) Create(ctx context.Context, articleID int, in models.CommentInput) (models.Comment, error) {
	if err := models.Validate(in); err != nil {
		return models.Comment{}, err
	}
	out := in.Comment(articleID)
	if err := c.api.Post(ctx, itemPath("/articles", articleID, "comments"), in, &out); err != nil {
		return models.Comment{}, err
	}
	return out, nil
}

// Update edits comment id. articleID only fills the returned value; the
// endpoint does not need it.
func (c *Comments) Update(ctx context.Context, id, articleID int, in models.CommentInput) (models.Comment, error) {
	if err := models.Validate(in); err != nil {
		return models.Comment{}, err
	}
	out := in.Comment(articleID)
	out.ID = id
	if err := c.api.Put(ctx, itemPath("/comments", id), in, &out); err != nil {
		return models.Comment{}, err
	}
	return out, nil
}

func (c *Comments) Delete(ctx context.Context, id int) error {
	return c.api.Delete(ctx, itemPath("/comments", id), nil)
}
