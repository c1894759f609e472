package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the document store is unreachable.
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
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	firestore  Pinger
	cache      Pinger
	summarizer SummarizerChecker
}

// New creates a Service. cache and summarizer can be nil.
func New(firestore, cache Pinger, summarizer SummarizerChecker) *Service {
	return &Service{firestore: firestore, cache: cache, summarizer: summarizer}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.firestore.Ping(ctx); err != nil {
		checks["firestore"] = CheckError
		status = Unhealthy
	} else {
		checks["firestore"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if s.summarizer != nil {
		if err := s.summarizer.HealthCheck(ctx); err != nil {
			checks["summarizer"] = CheckError
		} else {
			checks["summarizer"] = CheckOK
		}
	}

	if status == Healthy {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}
