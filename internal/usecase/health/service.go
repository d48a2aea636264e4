package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the index serves but a supporting component failed.
	Degraded Status = "degraded"
	// Unhealthy indicates no index is published.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	Documents int
}

// Service coordinates health checks.
type Service struct {
	index   IndexReader
	catalog CatalogChecker
}

// New creates a Service. catalog can be nil.
func New(index IndexReader, catalog CatalogChecker) *Service {
	return &Service{index: index, catalog: catalog}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	report := Report{Status: Healthy, Checks: checks}

	if idx, err := s.index.Current(); err != nil {
		checks["index"] = CheckError
		report.Status = Unhealthy
	} else {
		checks["index"] = CheckOK
		report.Documents = idx.Len()
	}

	if s.catalog != nil {
		if err := s.catalog.HealthCheck(ctx); err != nil {
			checks["catalog"] = CheckError
			if report.Status == Healthy {
				report.Status = Degraded
			}
		} else {
			checks["catalog"] = CheckOK
		}
	}

	return report
}
