// Package catalog reads the JSONL document catalog. The first non-empty line
// may be a {"_meta": {...}} header; every other line is one document.
package catalog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/logger"
)

// maxLineBytes bounds a single catalog line.
const maxLineBytes = 16 << 20

var validate = validator.New()

// Meta is the optional export header.
type Meta struct {
	Version       string `json:"version" validate:"required"`
	Count         int    `json:"count" validate:"min=0"`
	ExportedAt    string `json:"exported_at"`
	SchemaVersion int    `json:"schema_version"`
}

// Catalog is the parsed content of one catalog file.
type Catalog struct {
	Meta      *Meta
	Documents []document.Document
}

// LineError reports the 1-based line a catalog entry was rejected on.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

type header struct {
	Meta *Meta `json:"_meta"`
}

type record struct {
	ID          string   `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Content     string   `json:"content" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
	Version     string   `json:"version"`
	CreatedAt   string   `json:"created_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Featured    bool     `json:"featured"`
}

// Read parses a catalog stream. The first malformed or invalid line aborts
// the read with a *LineError; duplicate ids are rejected the same way.
func Read(r io.Reader) (Catalog, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var cat Catalog
	seen := make(map[string]int)
	line, first := 0, true
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		if first {
			first = false
			meta, err := parseHeader(raw)
			if err != nil {
				return Catalog{}, &LineError{Line: line, Err: err}
			}
			if meta != nil {
				cat.Meta = meta
				continue
			}
		}

		doc, err := parseRecord(raw)
		if err != nil {
			return Catalog{}, &LineError{Line: line, Err: err}
		}
		if prev, dup := seen[doc.ID()]; dup {
			return Catalog{}, &LineError{
				Line: line,
				Err:  fmt.Errorf("%w: id %q already defined on line %d", domain.ErrInvalidDocument, doc.ID(), prev),
			}
		}
		seen[doc.ID()] = line
		cat.Documents = append(cat.Documents, doc)
	}
	if err := sc.Err(); err != nil {
		return Catalog{}, fmt.Errorf("scan catalog: %w", err)
	}
	return cat, nil
}

// parseHeader returns nil, nil when raw is an ordinary document line.
func parseHeader(raw []byte) (*Meta, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	if _, ok := fields["_meta"]; !ok {
		return nil, nil
	}
	var h header
	if err := json.Unmarshal(raw, &h); err != nil || h.Meta == nil {
		return nil, fmt.Errorf("%w: malformed _meta header", domain.ErrInvalidDocument)
	}
	if err := validate.Struct(h.Meta); err != nil {
		return nil, fmt.Errorf("%w: _meta: %v", domain.ErrInvalidDocument, err)
	}
	return h.Meta, nil
}

func parseRecord(raw []byte) (document.Document, error) {
	var rec record
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	if err := validate.Struct(&rec); err != nil {
		return document.Document{}, fmt.Errorf("%w: %s", domain.ErrInvalidDocument, describe(err))
	}

	doc, err := document.New(rec.ID, rec.Title, rec.Description, rec.Content,
		document.Category(rec.Category), rec.Tags)
	if err != nil {
		return document.Document{}, err
	}

	meta := document.Meta{Author: rec.Author, Version: rec.Version, Featured: rec.Featured}
	if rec.CreatedAt != "" {
		// already validated as RFC 3339
		meta.CreatedAt, _ = time.Parse(time.RFC3339, rec.CreatedAt)
	}
	return doc.WithMeta(meta), nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	return fmt.Sprintf("field %q fails %q", verrs[0].Field(), verrs[0].Tag())
}

// Source is a catalog file on disk.
type Source struct {
	path string
}

// NewSource creates a Source for path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the catalog file path.
func (s *Source) Path() string { return s.path }

// Load reads and validates the whole catalog file.
func (s *Source) Load(ctx context.Context) ([]document.Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	cat, err := Read(f)
	if err != nil {
		logger.FromContext(ctx).Warn("Catalog rejected", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}

	fields := []zap.Field{zap.String("path", s.path), zap.Int("documents", len(cat.Documents))}
	if cat.Meta != nil {
		fields = append(fields, zap.String("version", cat.Meta.Version))
		if cat.Meta.Count != len(cat.Documents) {
			logger.FromContext(ctx).Warn("Catalog count mismatch",
				zap.Int("declared", cat.Meta.Count), zap.Int("read", len(cat.Documents)))
		}
	}
	logger.FromContext(ctx).Info("Catalog loaded", fields...)
	return cat.Documents, nil
}

// HealthCheck reports whether the catalog file is present and readable.
func (s *Source) HealthCheck(_ context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return f.Close()
}
