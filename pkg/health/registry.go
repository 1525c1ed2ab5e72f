package health

import (
	"context"
	"sync"
)

// Registry is the fixed set of checkers run on every readiness request.
type Registry struct {
	checkers []Checker
}

func NewRegistry(checkers ...Checker) *Registry {
	return &Registry{checkers: checkers}
}

// CheckResult is one named check in the readiness response.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReadinessResponse aggregates every check; Status is down if any check is.
type ReadinessResponse struct {
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckAll runs every checker concurrently and waits for all of them, so
// the response takes as long as the slowest dependency, not the sum.
func (r *Registry) CheckAll(ctx context.Context) ReadinessResponse {
	if len(r.checkers) == 0 {
		return ReadinessResponse{Status: StatusUp}
	}

	results := make([]CheckResult, len(r.checkers))
	var wg sync.WaitGroup
	for i, checker := range r.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := checker.Check(ctx)
			results[i] = CheckResult{Name: checker.Name(), Status: res.Status, Message: res.Message}
		}()
	}
	wg.Wait()

	overall := StatusUp
	for _, res := range results {
		if res.Status == StatusDown {
			overall = StatusDown
			break
		}
	}
	return ReadinessResponse{Status: overall, Checks: results}
}
