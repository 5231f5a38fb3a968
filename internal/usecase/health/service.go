package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the pipeline can still serve reads but not encode.
	Degraded Status = "degraded"
	// Unhealthy indicates the storage backend is unreachable.
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
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{db: db, embedding: embedding}
}

// Check runs health checks against all components. A database failure is
// fatal for every pipeline stage; an embedding provider failure only blocks
// encode and query.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dbOK := s.db.Ping(ctx) == nil
	if dbOK {
		checks["database"] = CheckOK
	} else {
		checks["database"] = CheckError
	}

	embeddingOK := true
	if s.embedding != nil {
		embeddingOK = s.embedding.HealthCheck(ctx) == nil
		if embeddingOK {
			checks["embedding"] = CheckOK
		} else {
			checks["embedding"] = CheckError
		}
	}

	status := Healthy
	switch {
	case !dbOK:
		status = Unhealthy
	case !embeddingOK:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
