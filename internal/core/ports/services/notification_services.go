package services

import (
	"context"
	"errors"
)

// HealthcheckKind selects which configured check-in URL a ping targets.
type HealthcheckKind string

const (
	HealthcheckHeartbeat        HealthcheckKind = "heartbeat"
	HealthcheckRefreshCompleted HealthcheckKind = "refreshCompleted"
)

// ErrNoURLConfigured is returned when the requested check-in has no URL set.
var ErrNoURLConfigured = errors.New("healthcheck URL not configured")

// HealthcheckSvc pings an external health-check endpoint. Best effort; callers
// downgrade failures to warnings.
type HealthcheckSvc interface {
	Ping(ctx context.Context, kind HealthcheckKind) error
}

// RefreshNotifierSvc sends the post-refresh summary email. Best effort.
type RefreshNotifierSvc interface {
	SendRefreshSummary(ctx context.Context) error
}
