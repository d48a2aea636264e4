package document

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Dicklesworthstone/ranker/internal/domain"
)

var kebabRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// MaxIDLength is the maximum document identifier length.
const MaxIDLength = 128

// Meta carries display-only attributes. None of them participate in scoring.
type Meta struct {
	Author    string
	Version   string
	CreatedAt time.Time
	Featured  bool
}

// Document is the unit being indexed and scored (immutable value object).
type Document struct {
	id          string
	title       string
	description string
	content     string
	tags        []string
	category    Category
	meta        Meta
}

// New validates and creates a Document.
// ID and tags: lowercase kebab tokens. Title and content: non-empty. Category: known value.
func New(id, title, description, content string, category Category, tags []string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("%w: id is required", domain.ErrInvalidDocument)
	}
	if len(id) > MaxIDLength {
		return Document{}, fmt.Errorf("%w: id too long (max %d)", domain.ErrInvalidDocument, MaxIDLength)
	}
	if !kebabRegex.MatchString(id) {
		return Document{}, fmt.Errorf("%w: id %q must be lowercase kebab-case", domain.ErrInvalidDocument, id)
	}
	if strings.TrimSpace(title) == "" {
		return Document{}, fmt.Errorf("%w: title is required for %q", domain.ErrInvalidDocument, id)
	}
	if strings.TrimSpace(content) == "" {
		return Document{}, fmt.Errorf("%w: content is required for %q", domain.ErrInvalidDocument, id)
	}
	if !category.IsValid() {
		return Document{}, fmt.Errorf("%w: unknown category %q for %q", domain.ErrInvalidDocument, category, id)
	}

	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if !kebabRegex.MatchString(tag) {
			return Document{}, fmt.Errorf("%w: tag %q must be lowercase kebab-case", domain.ErrInvalidDocument, tag)
		}
		if seen[tag] {
			return Document{}, fmt.Errorf("%w: duplicate tag %q on %q", domain.ErrInvalidDocument, tag, id)
		}
		seen[tag] = true
	}

	return Document{
		id:          id,
		title:       title,
		description: description,
		content:     content,
		tags:        cloneStrings(tags),
		category:    category,
	}, nil
}

// Reconstruct creates a Document without validation (trusted hydration, tests).
func Reconstruct(id, title, description, content string, category Category, tags []string) Document {
	return Document{
		id: id, title: title, description: description, content: content,
		category: category, tags: tags,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Description returns the short description.
func (d *Document) Description() string { return d.description }

// Content returns the document body.
func (d *Document) Content() string { return d.content }

// Tags returns the tag labels.
func (d *Document) Tags() []string { return d.tags }

// Category returns the document category.
func (d *Document) Category() Category { return d.category }

// Meta returns display-only attributes.
func (d *Document) Meta() Meta { return d.meta }

// HasTag reports whether the document carries tag.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// WithMeta returns a copy with display attributes set.
func (d *Document) WithMeta(m Meta) Document {
	c := *d
	c.meta = m
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
