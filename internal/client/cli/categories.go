package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/goblog/internal/client/models"
)

// Categories opens the category list, or with an id lists that category's
// articles.
func (a *App) Categories(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.Go(ctx, "/categories")
	}
	id, err := argID(args, "categories [id]")
	if err != nil {
		return err
	}
	if _, ok := a.visit(ctx, "/categories"); !ok {
		return nil
	}
	if err := a.blogs.FetchByCategory(ctx, id); err != nil {
		return err
	}
	printArticles(a.blogs.Items(), "No posts in this category.")
	return nil
}

// AddCategory creates a category. Only administrators may do so.
func (a *App) AddCategory(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	if !a.isAdmin() {
		printlnFn("Admin access required.")
		return nil
	}

	name, err := getSimpleText(a.reader, "Category name", a.out)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	c, err := a.categories.Create(ctx, models.CategoryInput{Name: name, Description: desc})
	if err != nil {
		return err
	}
	printlnFn("Created category", c.ID)
	return nil
}

func (a *App) showCategories(ctx context.Context) error {
	if err := a.categories.Fetch(ctx); err != nil {
		return err
	}
	items := a.categories.Items()
	if len(items) == 0 {
		printlnFn("No categories.")
		return nil
	}
	for _, c := range items {
		line := fmt.Sprintf("#%d %s", c.ID, c.Name)
		if c.Description != "" {
			line += ": " + c.Description
		}
		printlnFn(line)
	}
	return nil
}
