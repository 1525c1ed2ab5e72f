// Package health aggregates readiness checks over the storefront's backing
// services and exposes them as gin handlers.
package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single readiness check end to end.
const DefaultTimeout = 5 * time.Second

// Status of one dependency.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result carries the status of one check and a detail message when down.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker tests one backing service.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}
