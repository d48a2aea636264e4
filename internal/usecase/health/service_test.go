package health

import (
	"context"
	"errors"
	"testing"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
)

// --- Mocks ---

type mockIndex struct {
	idx *bm25.Index
	err error
}

func (m *mockIndex) Current() (*bm25.Index, error) { return m.idx, m.err }

type mockCatalog struct {
	err error
}

func (m *mockCatalog) HealthCheck(_ context.Context) error { return m.err }

func built() *mockIndex {
	docs := []document.Document{
		document.Reconstruct("a", "Alpha", "", "first", document.Testing, nil),
		document.Reconstruct("b", "Beta", "", "second", document.Testing, nil),
	}
	return &mockIndex{idx: bm25.Build(docs, bm25.DefaultParams())}
}

func notBuilt() *mockIndex { return &mockIndex{err: domain.ErrIndexNotBuilt} }

// --- Tests ---

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		index     *mockIndex
		catalog   CatalogChecker
		status    Status
		checks    map[string]CheckResult
		documents int
	}{
		{
			name:      "all healthy",
			index:     built(),
			catalog:   &mockCatalog{},
			status:    Healthy,
			checks:    map[string]CheckResult{"index": CheckOK, "catalog": CheckOK},
			documents: 2,
		},
		{
			name:      "catalog unreadable",
			index:     built(),
			catalog:   &mockCatalog{err: errors.New("no such file")},
			status:    Degraded,
			checks:    map[string]CheckResult{"index": CheckOK, "catalog": CheckError},
			documents: 2,
		},
		{
			name:    "index not built",
			index:   notBuilt(),
			catalog: &mockCatalog{},
			status:  Unhealthy,
			checks:  map[string]CheckResult{"index": CheckError, "catalog": CheckOK},
		},
		{
			name:    "both fail",
			index:   notBuilt(),
			catalog: &mockCatalog{err: errors.New("gone")},
			status:  Unhealthy,
			checks:  map[string]CheckResult{"index": CheckError, "catalog": CheckError},
		},
		{
			name:      "no catalog checker",
			index:     built(),
			status:    Healthy,
			checks:    map[string]CheckResult{"index": CheckOK},
			documents: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.index, tc.catalog).Check(context.Background())

			if r.Status != tc.status {
				t.Errorf("status = %q, want %q", r.Status, tc.status)
			}
			if len(r.Checks) != len(tc.checks) {
				t.Errorf("checks = %v, want %v", r.Checks, tc.checks)
			}
			for k, v := range tc.checks {
				if r.Checks[k] != v {
					t.Errorf("check %q = %q, want %q", k, r.Checks[k], v)
				}
			}
			if r.Documents != tc.documents {
				t.Errorf("documents = %d, want %d", r.Documents, tc.documents)
			}
		})
	}
}
