package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/valarz/go-press/cmd/press/internal/bootstrap"
	"github.com/valarz/go-press/internal/content"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runArticles(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("press articles: %v", err)
	}
}

type articleView struct {
	Article any    `json:"article"`
	HTML    string `json:"html"`
}

func runArticles(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("press-articles", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional config file (yaml, json, or toml)")
	search := fs.String("search", "", "Case-insensitive search over title, excerpt, and tags")
	category := fs.String("category", "", "Exact category filter; empty or \"all\" disables it")
	page := fs.Int("page", 1, "Page number, starting at 1")
	limit := fs.Int("limit", 0, "Page size; zero or negative returns every match")
	slug := fs.String("slug", "", "Print a single article with its rendered body")
	categories := fs.String("categories", "", "Print categories of the given type instead of articles (use \"any\" for all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{ConfigPath: *configPath})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	switch {
	case strings.TrimSpace(*categories) != "":
		filter := content.CategoryFilter{Type: *categories}
		if filter.Type == "any" {
			filter.Type = ""
		}
		return enc.Encode(module.Articles.ListCategories(ctx, filter))
	case strings.TrimSpace(*slug) != "":
		article, err := module.Articles.GetBySlug(ctx, *slug)
		if err != nil {
			return err
		}
		return enc.Encode(articleView{Article: article, HTML: module.Module.RenderArticle(article)})
	default:
		return enc.Encode(module.Articles.List(ctx, content.ListFilter{
			Search:   *search,
			Category: *category,
			Page:     *page,
			Limit:    *limit,
		}))
	}
}
