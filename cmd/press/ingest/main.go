package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/valarz/go-press/cmd/press/internal/bootstrap"
	markdowncmd "github.com/valarz/go-press/internal/commands/markdown"
	"github.com/valarz/go-press/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runIngest(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("press ingest: %v", err)
	}
}

func runIngest(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("press-ingest", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional config file (yaml, json, or toml)")
	posts := fs.String("posts", "", "Directory holding the markdown posts (defaults to config)")
	out := fs.String("out", "", "Directory receiving article shards (defaults to config)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering markdown files")
	dryRun := fs.Bool("dry-run", false, "Report what would be converted without writing")
	force := fs.Bool("force", false, "Convert documents even when unchanged since the last run")
	asJSON := fs.Bool("json", false, "Print the run result as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath:      *configPath,
		PostsDir:        *posts,
		OutputDir:       *out,
		Pattern:         *pattern,
		RequireMarkdown: true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()
	if module.Service == nil {
		return fmt.Errorf("markdown service not configured")
	}

	var result *interfaces.IngestResult
	handler := markdowncmd.NewIngestDirectoryHandler(module.Service, module.Logger, module.Gates)
	cmd := markdowncmd.IngestDirectoryCommand{
		Directory: ".",
		Pattern:   *pattern,
		DryRun:    *dryRun,
		Force:     *force,
		OnResult:  func(r *interfaces.IngestResult) { result = r },
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute ingest command: %w", err)
	}
	if result == nil {
		result = &interfaces.IngestResult{}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSummary(stdout, result)
	return nil
}

func printSummary(w io.Writer, result *interfaces.IngestResult) {
	prefix := ""
	if result.DryRun {
		prefix = "[dry-run] "
	}
	for _, created := range result.Created {
		fmt.Fprintf(w, "%sconverted %s -> #%d %s\n", prefix, created.SourceFile, created.ID, created.Slug)
	}
	for _, failure := range result.Failed {
		fmt.Fprintf(w, "%sfailed %s\n", prefix, failure.Error())
	}
	if len(result.Created) == 0 {
		fmt.Fprintf(w, "%sno new articles (%d unchanged)\n", prefix, len(result.Skipped))
		return
	}
	fmt.Fprintf(w, "%swrote %d articles to %s (%d total, run %s)\n",
		prefix, len(result.Created), result.Shard, result.TotalArticles, result.RunID)
}
