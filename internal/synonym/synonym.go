// Package synonym expands query tokens through a static, bidirectional term dictionary.
package synonym

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/ranker/internal/analysis"
)

//go:embed synonyms.yaml
var defaultYAML []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Term is one token of an expanded query.
type Term struct {
	Value string
	// Expanded is true when the term came only from the dictionary, never typed.
	Expanded bool
	// Origin is the typed token the term was reached from (itself for typed terms).
	Origin string
}

// Expansion is the result of Table.Expand: typed terms first, then dictionary terms.
type Expansion struct {
	Terms []Term
}

// Typed returns the directly typed tokens in order.
func (e Expansion) Typed() []string {
	out := make([]string, 0, len(e.Terms))
	for _, t := range e.Terms {
		if !t.Expanded {
			out = append(out, t.Value)
		}
	}
	return out
}

// Extra returns only the dictionary-introduced terms.
func (e Expansion) Extra() []Term {
	var out []Term
	for _, t := range e.Terms {
		if t.Expanded {
			out = append(out, t)
		}
	}
	return out
}

// Values flattens the expansion to its term strings.
func (e Expansion) Values() []string {
	out := make([]string, len(e.Terms))
	for i, t := range e.Terms {
		out[i] = t.Value
	}
	return out
}

// Table is an immutable synonym dictionary. Safe for concurrent use.
type Table struct {
	forward map[string][]string
	reverse map[string][]string
}

// Default returns the compiled-in table.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded synonyms.yaml: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Load reads a YAML override file (term: [related, ...]).
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if err != nil {
		return nil, fmt.Errorf("read synonyms: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse synonyms %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a table from YAML. Keys and values are normalized to token form;
// multi-word values become hyphen compounds.
func Parse(data []byte) (*Table, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return New(raw), nil
}

// New builds a table from an in-memory dictionary.
func New(entries map[string][]string) *Table {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &Table{
		forward: make(map[string][]string, len(entries)),
		reverse: make(map[string][]string),
	}
	for _, k := range keys {
		key := analysis.NormalizeIdentifier(k)
		if key == "" {
			continue
		}
		for _, v := range entries[k] {
			val := analysis.NormalizeIdentifier(v)
			if val == "" || val == key || contains(t.forward[key], val) {
				continue
			}
			t.forward[key] = append(t.forward[key], val)
			if !contains(t.reverse[val], key) {
				t.reverse[val] = append(t.reverse[val], key)
			}
		}
	}
	return t
}

// Len returns the number of canonical entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.forward)
}

// Expand unions each token's forward synonyms and every key listing the token.
// Typed tokens are always retained, first and unflagged. Never fails; a nil
// table expands to the typed tokens alone.
func (t *Table) Expand(tokens []string) Expansion {
	terms := make([]Term, 0, len(tokens)*3)
	seen := make(map[string]bool, len(tokens)*3)
	for _, tok := range tokens {
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		terms = append(terms, Term{Value: tok, Origin: tok})
	}

	if t == nil {
		return Expansion{Terms: terms}
	}
	typed := len(terms)
	for i := 0; i < typed; i++ {
		tok := terms[i].Value
		for _, related := range [][]string{t.forward[tok], t.reverse[tok]} {
			for _, v := range related {
				if seen[v] {
					continue
				}
				seen[v] = true
				terms = append(terms, Term{Value: v, Expanded: true, Origin: tok})
			}
		}
	}
	return Expansion{Terms: terms}
}

// Terms returns the deduplicated flat expansion of tokens, originals first.
func (t *Table) Terms(tokens []string) []string {
	return t.Expand(tokens).Values()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
