package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/client/resources"
	"github.com/dmitrijs2005/goblog/internal/client/uploads"
)

// Posts opens the article list, optionally at a given page.
func (a *App) Posts(ctx context.Context, args []string) error {
	path := "/blog"
	if len(args) > 0 {
		page, err := strconv.Atoi(args[0])
		if err != nil || page < 1 {
			return usage("posts [page]")
		}
		if page > 1 {
			path = fmt.Sprintf("/blog?page=%d", page)
		}
	}
	return a.Go(ctx, path)
}

// Post opens one article with its comments.
func (a *App) Post(ctx context.Context, args []string) error {
	id, err := argID(args, "post <id>")
	if err != nil {
		return err
	}
	return a.Go(ctx, fmt.Sprintf("/blog/%d", id))
}

// AddPost opens the article editor for a new article.
func (a *App) AddPost(ctx context.Context) error {
	return a.Go(ctx, "/add-post")
}

// EditPost opens the article editor for an existing article.
func (a *App) EditPost(ctx context.Context, args []string) error {
	id, err := argID(args, "editpost <id>")
	if err != nil {
		return err
	}
	return a.Go(ctx, fmt.Sprintf("/edit-post/%d", id))
}

// DelPost deletes an article after confirmation.
func (a *App) DelPost(ctx context.Context, args []string) error {
	id, err := argID(args, "delpost <id>")
	if err != nil {
		return err
	}
	if !a.requireLogin() {
		return nil
	}
	ok, err := a.confirm(fmt.Sprintf("Delete post #%d?", id))
	if err != nil || !ok {
		return err
	}
	if err := a.blogs.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn("Deleted post", id)
	return nil
}

func (a *App) showPosts(ctx context.Context, page int) error {
	if err := a.blogs.Fetch(ctx, resources.ArticleQuery{Page: page, PageSize: pageSize}); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Posts, page %d:", page))
	printArticles(a.blogs.Items(), "No posts yet.")
	return nil
}

func (a *App) showPost(ctx context.Context, id int) error {
	art, err := a.blogs.FetchOne(ctx, id)
	if err != nil {
		return err
	}
	printArticle(art)
	if !a.isLoggedIn() {
		printlnFn("Log in to read the comments.")
		return nil
	}
	return a.showComments(ctx, id)
}

func (a *App) addPostForm(ctx context.Context) error {
	u, _ := a.session.UserInfo()

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	category, err := a.askCategory(ctx, "")
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	image, err := a.askImage(ctx)
	if err != nil {
		return err
	}

	art, err := a.blogs.Create(ctx, models.ArticleInput{
		Title:        title,
		Content:      content,
		Author:       u.Username,
		CategoryName: category,
		ImagePath:    image,
	})
	if err != nil {
		return err
	}
	printlnFn("Created post", art.ID)
	return nil
}

func (a *App) editPostForm(ctx context.Context, id int) error {
	art, err := a.blogs.FetchOne(ctx, id)
	if err != nil {
		return err
	}

	title, err := GetDefault(a.reader, "Title", art.Title, a.out)
	if err != nil {
		return err
	}
	category, err := a.askCategory(ctx, art.Category.Name)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		content = art.Content
	}

	author := art.Author
	if author == "" {
		u, _ := a.session.UserInfo()
		author = u.Username
	}

	if _, err := a.blogs.Update(ctx, id, models.ArticleInput{
		Title:        title,
		Content:      content,
		Author:       author,
		CategoryName: category,
		ImagePath:    art.ImagePath,
	}); err != nil {
		return err
	}
	printlnFn("Updated post", id)
	return nil
}

// askCategory lists the known categories and asks for one by name.
func (a *App) askCategory(ctx context.Context, current string) (string, error) {
	if err := a.categories.Fetch(ctx); err == nil {
		names := make([]string, 0, len(a.categories.Items()))
		for _, c := range a.categories.Items() {
			names = append(names, c.Name)
		}
		if len(names) > 0 {
			printlnFn("Categories:", strings.Join(names, ", "))
		}
	}
	return GetDefault(a.reader, "Category", current, a.out)
}

// askImage optionally uploads a cover image and returns its location.
func (a *App) askImage(ctx context.Context) (*string, error) {
	path, err := getSimpleText(a.reader, "Image file (empty for none)", a.out)
	if err != nil || path == "" {
		return nil, err
	}
	res, err := uploads.UploadFile(ctx, a.sink, path)
	if err != nil {
		return nil, err
	}
	loc := res.Location()
	return &loc, nil
}

func (a *App) confirm(question string) (bool, error) {
	s, err := getSimpleText(a.reader, question+" (y/N)", a.out)
	if err != nil {
		return false, err
	}
	s = strings.ToLower(s)
	return s == "y" || s == "yes", nil
}
