package markdowncmd

import (
	"io"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/valarz/go-press/pkg/interfaces"
)

const (
	ingestDirectoryMessageType = "press.markdown.ingest_directory"
	renderDocumentMessageType  = "press.markdown.render_document"
)

// IngestDirectoryCommand converts new or changed Markdown documents under
// Directory into a fresh article shard.
type IngestDirectoryCommand struct {
	// Directory selects the source path relative to the configured posts directory.
	Directory string `json:"directory"`
	// Pattern overrides the configured file glob.
	Pattern string `json:"pattern,omitempty"`
	// DryRun computes the result without writing shards, the index, or the ledger.
	DryRun bool `json:"dry_run,omitempty"`
	// Force converts documents even when their fingerprint is unchanged.
	Force bool `json:"force,omitempty"`
	// OnResult receives the ingestion result after a successful run.
	OnResult func(*interfaces.IngestResult) `json:"-"`
}

// Type implements command.Message.
func (IngestDirectoryCommand) Type() string { return ingestDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd IngestDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.markdown.ingest_directory.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.Pattern, validation.By(validGlob)),
	)
}

// RenderDocumentCommand loads one document and writes its rendered body to
// Output.
type RenderDocumentCommand struct {
	// Path selects the document relative to the configured posts directory.
	Path string `json:"path"`
	// Sanitize filters the output through the sanitising policy when the
	// active engine supports it.
	Sanitize bool      `json:"sanitize,omitempty"`
	Output   io.Writer `json:"-"`
}

// Type implements command.Message.
func (RenderDocumentCommand) Type() string { return renderDocumentMessageType }

// Validate ensures a path and an output writer are supplied.
func (cmd RenderDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required),
		validation.Field(&cmd.Output, validation.By(func(value any) error {
			if w, ok := value.(io.Writer); !ok || w == nil {
				return validation.NewError("press.markdown.render_document.output_required", "output writer is required")
			}
			return nil
		})),
	)
}

func validGlob(value any) error {
	pattern, _ := value.(string)
	if strings.TrimSpace(pattern) == "" {
		return nil
	}
	if _, err := path.Match(pattern, "probe.md"); err != nil {
		return validation.NewError("press.markdown.ingest_directory.pattern_invalid", "pattern is not a valid glob")
	}
	return nil
}
