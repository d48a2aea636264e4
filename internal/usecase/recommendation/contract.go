package recommendation

import bm25 "github.com/Dicklesworthstone/ranker/internal/index"

// IndexReader exposes the currently published corpus snapshot.
type IndexReader interface {
	Current() (*bm25.Index, error)
}
