package cli

import (
	"context"

	"github.com/dmitrijs2005/goblog/internal/client/models"
)

// Comments lists the comments of an article.
func (a *App) Comments(ctx context.Context, args []string) error {
	id, err := argID(args, "comments <postID>")
	if err != nil {
		return err
	}
	if !a.requireLogin() {
		return nil
	}
	return a.showComments(ctx, id)
}

// Comment adds a comment to an article as the signed-in user.
func (a *App) Comment(ctx context.Context, args []string) error {
	articleID, err := argID(args, "comment <postID>")
	if err != nil {
		return err
	}
	if !a.requireLogin() {
		return nil
	}
	u, _ := a.session.UserInfo()

	content, err := getSimpleText(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	c, err := a.comments.Create(ctx, articleID, models.CommentInput{Content: content, Author: u.Username})
	if err != nil {
		return err
	}
	printlnFn("Added comment", c.ID)
	return nil
}

// DelComment deletes a comment.
func (a *App) DelComment(ctx context.Context, args []string) error {
	id, err := argID(args, "delcomment <id>")
	if err != nil {
		return err
	}
	if !a.requireLogin() {
		return nil
	}
	if err := a.comments.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn("Deleted comment", id)
	return nil
}

func (a *App) showComments(ctx context.Context, articleID int) error {
	if err := a.comments.FetchByArticle(ctx, articleID); err != nil {
		return err
	}
	items := a.comments.Items()
	if len(items) == 0 {
		printlnFn("No comments.")
		return nil
	}
	printlnFn("Comments:")
	for _, c := range items {
		printlnFn(commentLine(c))
	}
	return nil
}
