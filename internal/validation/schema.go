package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
	ErrUnknownDocument  = errors.New("unknown document kind")
)

// Document names a persisted JSON document shape.
type Document string

const (
	// ArticleList is a flat array of article objects.
	ArticleList Document = "article-list"
	// CategoryList is a flat array of category objects.
	CategoryList Document = "category-list"
	// Shard is one ingestion run output.
	Shard Document = "shard"
	// ShardIndex summarises every shard in an output directory.
	ShardIndex Document = "shard-index"
)

const articleItemSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "integer", "minimum": 0},
		"title": {"type": "string"},
		"slug": {"type": "string"},
		"tags": {"type": ["array", "null"], "items": {"type": "string"}},
		"views": {"type": "integer", "minimum": 0},
		"likes": {"type": "integer", "minimum": 0},
		"featured": {"type": "boolean"}
	}
}`

var schemaSources = map[Document]string{
	ArticleList: `{"type": "array", "items": ` + articleItemSchema + `}`,
	CategoryList: `{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"slug": {"type": "string"},
				"type": {"type": "string"},
				"icon": {"type": "string"}
			}
		}
	}`,
	Shard: `{
		"type": "object",
		"required": ["generatedAt", "date", "count", "articles"],
		"properties": {
			"generatedAt": {"type": "string"},
			"date": {"type": "string"},
			"count": {"type": "integer", "minimum": 0},
			"articles": {"type": "array", "items": ` + articleItemSchema + `}
		}
	}`,
	ShardIndex: `{
		"type": "object",
		"required": ["files"],
		"properties": {
			"version": {"type": "string"},
			"lastUpdate": {"type": ["string", "null"]},
			"totalArticles": {"type": "integer", "minimum": 0},
			"files": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["filename"],
					"properties": {
						"filename": {"type": "string", "minLength": 1},
						"date": {"type": "string"},
						"count": {"type": "integer", "minimum": 0},
						"createdAt": {"type": "string"},
						"runId": {"type": "string"}
					}
				}
			}
		}
	}`,
}

var (
	compileOnce sync.Once
	compiled    map[Document]*jsonschema.Schema
	compileErr  error
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Document Document
	Issues   []ValidationIssue
	Cause    error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Document, e.Cause.Error())
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s: %s", e.Document, strings.Join(parts, "; "))
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		if len(payloadErr.Issues) == 0 && payloadErr.Cause != nil {
			return []ValidationIssue{{Message: payloadErr.Cause.Error()}}
		}
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// Validate checks raw JSON bytes against the schema registered for doc.
func Validate(doc Document, data []byte) error {
	schema, err := schemaFor(doc)
	if err != nil {
		return err
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return &PayloadValidationError{Document: doc, Cause: fmt.Errorf("decode: %w", err)}
	}

	if err := schema.Validate(value); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &PayloadValidationError{
				Document: doc,
				Issues:   collectValidationIssues(validationErr),
				Cause:    err,
			}
		}
		return &PayloadValidationError{Document: doc, Cause: err}
	}
	return nil
}

func schemaFor(doc Document) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[Document]*jsonschema.Schema, len(schemaSources))
		for name, source := range schemaSources {
			schema, err := compileSchema(string(name)+".json", source)
			if err != nil {
				compileErr = fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
				return
			}
			compiled[name] = schema
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	schema, ok := compiled[doc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, doc)
	}
	return schema, nil
}

func compileSchema(url, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
