package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/valarz/go-press/cmd/press/internal/bootstrap"
	markdowncmd "github.com/valarz/go-press/internal/commands/markdown"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runPreview(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("press preview: %v", err)
	}
}

func runPreview(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("press-preview", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional config file (yaml, json, or toml)")
	engine := fs.String("engine", "", "Rendering engine: subset or goldmark (defaults to config)")
	sanitize := fs.Bool("sanitize", false, "Filter goldmark output through the sanitising policy")
	frontMatter := fs.Bool("front-matter", false, "Print the parsed front matter before the body")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("exactly one markdown FILE is required")
	}
	file := fs.Arg(0)

	module, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath:      *configPath,
		PostsDir:        filepath.Dir(file),
		Engine:          *engine,
		RequireMarkdown: true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()
	if module.Service == nil {
		return errors.New("markdown service not configured")
	}

	if *frontMatter {
		doc, err := module.Service.Load(ctx, filepath.Base(file))
		if err != nil {
			return fmt.Errorf("load markdown document: %w", err)
		}
		encoded, err := json.MarshalIndent(doc.FrontMatter, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n\n", encoded)
	}

	handler := markdowncmd.NewRenderDocumentHandler(module.Service, module.Logger)
	if err := handler.Execute(ctx, markdowncmd.RenderDocumentCommand{
		Path:     filepath.Base(file),
		Sanitize: *sanitize,
		Output:   stdout,
	}); err != nil {
		return fmt.Errorf("execute render command: %w", err)
	}
	fmt.Fprintln(stdout)
	return nil
}
