package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/dmitrijs2005/goblog/internal/client/router"
)

const pageSize = 10

const dateLayout = "2006-01-02"

func usage(s string) error {
	return errors.New("usage: " + s)
}

// argID parses args[0] as an id.
func argID(args []string, use string) (int, error) {
	if len(args) < 1 {
		return 0, usage(use)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func pageOf(loc router.Location) int {
	p, err := strconv.Atoi(loc.Query.Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func articleLine(a models.Article) string {
	s := fmt.Sprintf("#%d %s by %s", a.ID, a.Title, a.Author)
	if a.Category.Name != "" {
		s += " in " + a.Category.Name
	}
	if !a.CreatedAt.IsZero() {
		s += ", " + a.CreatedAt.Format(dateLayout)
	}
	return s
}

func commentLine(c models.Comment) string {
	s := fmt.Sprintf("  [%d] %s", c.ID, c.Author)
	if !c.CreatedAt.IsZero() {
		s += " (" + c.CreatedAt.Format(dateLayout) + ")"
	}
	return s + ": " + c.Content
}

func printArticles(items []models.Article, empty string) {
	if len(items) == 0 {
		printlnFn(empty)
		return
	}
	for _, a := range items {
		printlnFn(articleLine(a))
	}
}

func printArticle(a models.Article) {
	printlnFn(articleLine(a))
	if a.ImagePath != nil && *a.ImagePath != "" {
		printlnFn("Image:", *a.ImagePath)
	}
	printlnFn(strings.Repeat("-", 40))
	printlnFn(a.Content)
	printlnFn(strings.Repeat("-", 40))
}
