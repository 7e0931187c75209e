// Package health reports the availability of the menu store and the phrase extractor.
package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the phrase extractor is down; chat still answers without it.
	Degraded Status = "degraded"
	// Unhealthy indicates the menu store is down.
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

const (
	checkDatabase = "database"
	checkPhrases  = "phrases"

	// DefaultCheckTimeout bounds each component check.
	DefaultCheckTimeout = 2 * time.Second
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	phrases PhraseChecker
	timeout time.Duration
}

// New creates a Service. phrases can be nil when no remote extractor is configured.
func New(db DBPinger, phrases PhraseChecker) *Service {
	return &Service{db: db, phrases: phrases, timeout: DefaultCheckTimeout}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)
	status := Healthy

	if s.run(ctx, s.db.Ping) {
		checks[checkDatabase] = CheckOK
	} else {
		checks[checkDatabase] = CheckError
		status = Unhealthy
	}

	if s.phrases != nil {
		if s.run(ctx, s.phrases.HealthCheck) {
			checks[checkPhrases] = CheckOK
		} else {
			checks[checkPhrases] = CheckError
			if status == Healthy {
				status = Degraded
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return check(ctx) == nil
}
