package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the primary database is down.
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
	postgres DBPinger
	redis    DBPinger
	provider ProviderChecker
	notify   DBPinger
}

// New creates a Service. redis and provider can be nil.
func New(postgres, redis DBPinger, provider ProviderChecker) *Service {
	return &Service{postgres: postgres, redis: redis, provider: provider}
}

// WithNotifications adds the notification bus to the report as "nats".
func (s *Service) WithNotifications(p DBPinger) *Service {
	s.notify = p
	return s
}

// Check runs health checks against all components. Postgres down is
// Unhealthy: nothing can be ranked without profiles. Redis, the match
// provider or the notification bus down only degrades the service.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["postgres"] = result(s.postgres.Ping(ctx))
	if s.redis != nil {
		checks["redis"] = result(s.redis.Ping(ctx))
	}
	if s.provider != nil {
		checks["match_provider"] = result(s.provider.HealthCheck(ctx))
	}
	if s.notify != nil {
		checks["nats"] = result(s.notify.Ping(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks["postgres"] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
