package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	domrec "github.com/Dicklesworthstone/ranker/internal/domain/recommendation"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/filter"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/mode"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/request"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	"github.com/Dicklesworthstone/ranker/internal/embedding"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
	"github.com/Dicklesworthstone/ranker/internal/query"
	healthuc "github.com/Dicklesworthstone/ranker/internal/usecase/health"
	indexinguc "github.com/Dicklesworthstone/ranker/internal/usecase/indexing"
	recommendationuc "github.com/Dicklesworthstone/ranker/internal/usecase/recommendation"
	searchuc "github.com/Dicklesworthstone/ranker/internal/usecase/search"
	similarityuc "github.com/Dicklesworthstone/ranker/internal/usecase/similarity"
	"github.com/Dicklesworthstone/ranker/internal/version"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// IndexReader exposes the currently published index.
type IndexReader interface {
	Current() (*bm25.Index, error)
}

// Services are the usecases the API serves.
type Services struct {
	Index           IndexReader
	Search          *searchuc.Service
	Recommendations *recommendationuc.Service
	Similarity      *similarityuc.Service
	Indexing        *indexinguc.Service
	Health          *healthuc.Service
	Synonyms        query.Expander
}

// Defaults apply when a request leaves a parameter out.
type Defaults struct {
	Mode               mode.Mode
	ExpandSynonyms     bool
	Limit              int
	EmbeddingDims      int
	DuplicateThreshold float64
}

// Server is the HTTP API of the ranking engine.
type Server struct {
	svc           Services
	defaults      Defaults
	logger        *zap.Logger
	validate      *validator.Validate
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, defaults Defaults, logger *zap.Logger) *Server {
	if defaults.EmbeddingDims <= 0 {
		defaults.EmbeddingDims = domain.DefaultEmbeddingDimensions
	}
	s := &Server{
		svc:      svc,
		defaults: defaults,
		logger:   logger,
		validate: validator.New(),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidLimit, http.StatusBadRequest, ErrorCodeInvalidLimit),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidDimensions, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusUnprocessableEntity, ErrorCodeInvalidDocument),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, ErrorCodeDocumentNotFound),
		sentinelHandler(domain.ErrIndexNotBuilt, http.StatusServiceUnavailable, ErrorCodeIndexNotBuilt),
	}
	return s
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.SearchDocuments)
		r.Get("/documents/{id}", s.GetDocument)
		r.Get("/documents/{id}/related", s.RelatedDocuments)
		r.Get("/documents/{id}/duplicates", s.NearDuplicates)
		r.Get("/documents/{id}/tags", s.SuggestTags)
		r.Post("/recommendations", s.Recommend)
		r.Post("/expand", s.ExpandQuery)
		r.Post("/embed", s.Embed)
		r.Post("/index/rebuild", s.RebuildIndex)
	})
}

// SearchDocuments handles GET /api/v1/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	req, err := s.searchRequest(r)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	matches, err := s.svc.Search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchResultItem, len(matches))
	for i := range matches {
		items[i] = searchResultToDTO(&matches[i])
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query: req.Query(),
		Mode:  string(req.Mode()),
		Items: items,
		Limit: req.Limit(),
		Total: len(items),
	})
}

// GetDocument handles GET /api/v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	idx, err := s.svc.Index.Current()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	doc, ok := idx.Document(id)
	if !ok {
		s.handleDomainError(w, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound))
		return
	}
	writeJSON(w, http.StatusOK, documentToDTO(doc))
}

// RelatedDocuments handles GET /api/v1/documents/{id}/related.
func (s *Server) RelatedDocuments(w http.ResponseWriter, r *http.Request) {
	limit, err := s.intParam(r, "limit", s.defaults.Limit)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	recs, err := s.svc.Recommendations.Related(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsToDTO(recs))
}

// Recommend handles POST /api/v1/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleRequestError(w, err)
		return
	}

	prefs, err := preferencesFromDTO(req.Preferences)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.defaults.Limit
	}

	recs, err := s.svc.Recommendations.ForYou(r.Context(), req.Signals, prefs, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsToDTO(recs))
}

// NearDuplicates handles GET /api/v1/documents/{id}/duplicates.
func (s *Server) NearDuplicates(w http.ResponseWriter, r *http.Request) {
	threshold := s.defaults.DuplicateThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.handleRequestError(w, fmt.Errorf("threshold must be a number: %w", err))
			return
		}
		threshold = f
	}

	id := chi.URLParam(r, "id")
	dups, err := s.svc.Similarity.NearDuplicatesByID(r.Context(), id, threshold)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if threshold == 0 {
		threshold = similarityuc.DefaultThreshold
	}
	items := make([]DuplicateItem, len(dups))
	for i, d := range dups {
		items[i] = DuplicateItem{
			Document:   documentToDTO(d.Document),
			Similarity: d.Similarity,
			Score:      d.Score,
			Reason:     d.Reason,
		}
	}
	writeJSON(w, http.StatusOK, DuplicateListResponse{ID: id, Threshold: threshold, Items: items})
}

// SuggestTags handles GET /api/v1/documents/{id}/tags.
func (s *Server) SuggestTags(w http.ResponseWriter, r *http.Request) {
	limit, err := s.intParam(r, "limit", 0)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	tags, err := s.svc.Similarity.SuggestTagsByID(r.Context(), id, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]TagSuggestionItem, len(tags))
	for i, t := range tags {
		items[i] = TagSuggestionItem{Tag: t.Tag, Score: t.Score}
	}
	writeJSON(w, http.StatusOK, TagSuggestionResponse{ID: id, Items: items})
}

// ExpandQuery handles POST /api/v1/expand.
func (s *Server) ExpandQuery(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleRequestError(w, err)
		return
	}

	tokens := s.svc.Synonyms.Expand(req.Tokens).Values()
	if tokens == nil {
		tokens = []string{}
	}
	writeJSON(w, http.StatusOK, ExpandResponse{Tokens: tokens})
}

// Embed handles POST /api/v1/embed.
func (s *Server) Embed(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleRequestError(w, err)
		return
	}

	dims := req.Dims
	if dims == 0 {
		dims = s.defaults.EmbeddingDims
	}
	vec, err := embedding.HashEmbed(req.Text, dims)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EmbedResponse{Dims: dims, Embedding: vec})
}

// RebuildIndex handles POST /api/v1/index/rebuild.
func (s *Server) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Indexing.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RebuildResponse{
		Generation: sum.Generation,
		Documents:  sum.Documents,
		Terms:      sum.Terms,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{
		Status:    string(report.Status),
		Version:   version.String(),
		Checks:    checks,
		Documents: report.Documents,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) searchRequest(r *http.Request) (request.Request, error) {
	q := r.URL.Query()

	f, err := filter.New(document.Category(q.Get("category")), q["tag"])
	if err != nil {
		return request.Request{}, fmt.Errorf("parse filters: %w", err)
	}

	m := s.defaults.Mode
	if v := q.Get("mode"); v != "" {
		m = mode.Mode(v)
	}

	expand := s.defaults.ExpandSynonyms
	if v := q.Get("expand"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return request.Request{}, fmt.Errorf("expand must be a boolean: %w", err)
		}
		expand = b
	}

	limit, err := s.intParam(r, "limit", s.defaults.Limit)
	if err != nil {
		return request.Request{}, err
	}

	req, err := request.New(q.Get("q"), m, f, limit, expand)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return req, nil
}

func (s *Server) intParam(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s fails %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s fails %s", fe.Namespace(), fe.Tag())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidLimit,
		domain.ErrInvalidRequest,
		domain.ErrInvalidDimensions,
		domain.ErrInvalidDocument,
		domain.ErrDocumentNotFound,
		domain.ErrIndexNotBuilt,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleRequestError reports a malformed request. Messages come from request
// parsing and validation, so they are safe to echo.
func (s *Server) handleRequestError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidLimit) {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidLimit, err.Error())
		return
	}
	if errors.Is(err, domain.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func documentToDTO(doc *document.Document) DocumentSummary {
	tags := doc.Tags()
	if tags == nil {
		tags = []string{}
	}
	meta := doc.Meta()
	out := DocumentSummary{
		ID:          doc.ID(),
		Title:       doc.Title(),
		Description: doc.Description(),
		Category:    string(doc.Category()),
		Tags:        tags,
		Author:      meta.Author,
		Version:     meta.Version,
		Featured:    meta.Featured,
	}
	if !meta.CreatedAt.IsZero() {
		t := meta.CreatedAt.UTC()
		out.CreatedAt = &t
	}
	return out
}

func searchResultToDTO(m *result.Match) SearchResultItem {
	return SearchResultItem{
		Document: documentToDTO(m.Document()),
		Score:    m.Score(),
		Fields:   m.Fields(),
	}
}

func recommendationsToDTO(recs []domrec.Recommendation) RecommendationListResponse {
	items := make([]RecommendationItem, len(recs))
	for i := range recs {
		items[i] = RecommendationItem{
			Document: documentToDTO(recs[i].Document()),
			Score:    recs[i].Score(),
			Reasons:  recs[i].Reasons(),
		}
	}
	return RecommendationListResponse{Items: items, Total: len(items)}
}

func preferencesFromDTO(p PreferencesRequest) (domrec.Preferences, error) {
	boost, err := categoriesFromDTO(p.BoostCategories)
	if err != nil {
		return domrec.Preferences{}, err
	}
	exclude, err := categoriesFromDTO(p.ExcludeCategories)
	if err != nil {
		return domrec.Preferences{}, err
	}
	return domrec.Preferences{
		BoostTags:         p.BoostTags,
		BoostCategories:   boost,
		ExcludeTags:       p.ExcludeTags,
		ExcludeCategories: exclude,
	}, nil
}

func categoriesFromDTO(in []string) ([]document.Category, error) {
	out := make([]document.Category, 0, len(in))
	for _, c := range in {
		cat := document.Category(c)
		if !cat.IsValid() {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, c)
		}
		out = append(out, cat)
	}
	return out, nil
}
