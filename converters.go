package ranker

import (
	"fmt"

	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	domrec "github.com/Dicklesworthstone/ranker/internal/domain/recommendation"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/filter"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	similarityuc "github.com/Dicklesworthstone/ranker/internal/usecase/similarity"
)

// toInternalDocument validates d against the data model.
func toInternalDocument(d *Document) (document.Document, error) {
	doc, err := document.New(d.ID, d.Title, d.Description, d.Content, document.Category(d.Category), d.Tags)
	if err != nil {
		return document.Document{}, fmt.Errorf("document %q: %w", d.ID, err)
	}
	return doc.WithMeta(toInternalMeta(d)), nil
}

// toTrustedDocument skips validation; used for ad-hoc scoring of caller data.
func toTrustedDocument(d *Document) document.Document {
	doc := document.Reconstruct(d.ID, d.Title, d.Description, d.Content, document.Category(d.Category), d.Tags)
	return doc.WithMeta(toInternalMeta(d))
}

func toInternalMeta(d *Document) document.Meta {
	return document.Meta{Author: d.Author, Version: d.Version, CreatedAt: d.CreatedAt, Featured: d.Featured}
}

func toInternalDocuments(docs []Document) ([]document.Document, error) {
	out := make([]document.Document, len(docs))
	for i := range docs {
		doc, err := toInternalDocument(&docs[i])
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = doc
	}
	return out, nil
}

func fromInternalDocument(d *document.Document) Document {
	meta := d.Meta()
	var tags []string
	if len(d.Tags()) > 0 {
		tags = append([]string(nil), d.Tags()...)
	}
	return Document{
		ID:          d.ID(),
		Title:       d.Title(),
		Description: d.Description(),
		Content:     d.Content(),
		Category:    Category(d.Category()),
		Tags:        tags,
		Author:      meta.Author,
		Version:     meta.Version,
		CreatedAt:   meta.CreatedAt,
		Featured:    meta.Featured,
	}
}

func fromMatches(ms []result.Match) []Match {
	out := make([]Match, len(ms))
	for i := range ms {
		out[i] = fromMatch(&ms[i])
	}
	return out
}

func fromMatch(m *result.Match) Match {
	return Match{
		Document: fromInternalDocument(m.Document()),
		Score:    m.Score(),
		Fields:   m.Fields(),
	}
}

func fromHits(hs []result.Hit) []Hit {
	out := make([]Hit, len(hs))
	for i, h := range hs {
		out[i] = Hit{ID: h.ID(), Score: h.Score()}
	}
	return out
}

func fromRecommendations(recs []domrec.Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i := range recs {
		out[i] = Recommendation{
			Document: fromInternalDocument(recs[i].Document()),
			Score:    recs[i].Score(),
			Reasons:  recs[i].Reasons(),
		}
	}
	return out
}

func fromDuplicates(ds []similarityuc.Duplicate) []Duplicate {
	out := make([]Duplicate, len(ds))
	for i, d := range ds {
		out[i] = Duplicate{
			Document:   fromInternalDocument(d.Document),
			Similarity: d.Similarity,
			Score:      d.Score,
			Reason:     d.Reason,
		}
	}
	return out
}

func fromTagSuggestions(ts []similarityuc.TagSuggestion) []TagSuggestion {
	out := make([]TagSuggestion, len(ts))
	for i, t := range ts {
		out[i] = TagSuggestion{Tag: t.Tag, Score: t.Score}
	}
	return out
}

func toInternalPreferences(p Preferences) domrec.Preferences {
	return domrec.Preferences{
		BoostTags:         p.BoostTags,
		BoostCategories:   toInternalCategories(p.BoostCategories),
		ExcludeTags:       p.ExcludeTags,
		ExcludeCategories: toInternalCategories(p.ExcludeCategories),
	}
}

func toInternalCategories(cs []Category) []document.Category {
	if len(cs) == 0 {
		return nil
	}
	out := make([]document.Category, len(cs))
	for i, c := range cs {
		out[i] = document.Category(c)
	}
	return out
}

func toInternalFilter(category Category, tags []string) (filter.Filter, error) {
	f, err := filter.New(document.Category(category), tags)
	if err != nil {
		return filter.Filter{}, fmt.Errorf("build filter: %w", err)
	}
	return f, nil
}
