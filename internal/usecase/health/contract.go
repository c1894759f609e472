package health

import "context"

// Pinger checks availability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SummarizerChecker checks summarizer provider availability.
type SummarizerChecker interface {
	HealthCheck(ctx context.Context) error
}
