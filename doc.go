// Package ranker is an in-process ranking engine for short structured documents
// (prompts, snippets, recipes): tokenization, field-weighted scoring, an inverted
// BM25 index, synonym expansion, recommendations and hash-embedding similarity.
//
// # Low-level API
//
//	eng, _ := ranker.New(ranker.WithLogger(logger))
//	_ = eng.Rebuild(ctx, docs)
//	matches, _ := eng.Search(ctx, "robot mode", &ranker.SearchOptions{Limit: 5})
//	related, _ := eng.Related(ctx, "robot-mode-maker", 3)
//
// # Schema-first API with Go generics
//
//	type Prompt struct {
//	    Slug  string   `ranker:"id"`
//	    Name  string   `ranker:"title"`
//	    Body  string   `ranker:"content"`
//	    Kind  string   `ranker:"category"`
//	    Tags  []string `ranker:"tags"`
//	}
//
//	idx, _ := ranker.NewIndex[Prompt](eng)
//	_ = idx.Rebuild(ctx, prompts)
//	hits, _ := idx.Search().Query("rmm").Limit(5).Do(ctx)
package ranker
