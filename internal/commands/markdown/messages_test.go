package markdowncmd

import (
	"bytes"
	"testing"
)

func TestIngestDirectoryCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		cmd     IngestDirectoryCommand
		wantErr bool
	}{
		{name: "valid", cmd: IngestDirectoryCommand{Directory: "posts"}},
		{name: "valid pattern", cmd: IngestDirectoryCommand{Directory: "posts", Pattern: "2024-*.md"}},
		{name: "missing directory", cmd: IngestDirectoryCommand{}, wantErr: true},
		{name: "blank directory", cmd: IngestDirectoryCommand{Directory: "   "}, wantErr: true},
		{name: "bad pattern", cmd: IngestDirectoryCommand{Directory: "posts", Pattern: "[md"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRenderDocumentCommandValidate(t *testing.T) {
	if err := (RenderDocumentCommand{Path: "a.md", Output: &bytes.Buffer{}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (RenderDocumentCommand{Output: &bytes.Buffer{}}).Validate(); err == nil {
		t.Fatal("expected error for missing path")
	}
	if err := (RenderDocumentCommand{Path: "a.md"}).Validate(); err == nil {
		t.Fatal("expected error for missing writer")
	}
}

func TestCommandTypes(t *testing.T) {
	if got := (IngestDirectoryCommand{}).Type(); got != "press.markdown.ingest_directory" {
		t.Fatalf("unexpected ingest type %q", got)
	}
	if got := (RenderDocumentCommand{}).Type(); got != "press.markdown.render_document" {
		t.Fatalf("unexpected render type %q", got)
	}
}
