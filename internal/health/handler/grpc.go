package handler

import (
	"context"
	"log"
	"time"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker reports whether the authorization policy can still be evaluated.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server implements HealthService for readiness and liveness probes.
type Server struct {
	db     Pinger
	policy PolicyChecker
}

// NewServer returns a new Health gRPC server. A nil dependency is skipped (memory store, no policy).
func NewServer(db Pinger, policy PolicyChecker) *Server {
	return &Server{db: db, policy: policy}
}

// HealthCheck reports SERVING when every configured dependency answers. A failing
// dependency yields NOT_SERVING, never a gRPC error, so probes can read the body.
func (s *Server) HealthCheck(ctx context.Context, _ *lifecyclev1.HealthCheckRequest) (*lifecyclev1.HealthCheckResponse, error) {
	resp := &lifecyclev1.HealthCheckResponse{Status: lifecyclev1.ServingStatusServing, Checks: map[string]string{}}
	if s.db != nil {
		s.check(ctx, resp, "database", s.db.PingContext)
	}
	if s.policy != nil {
		s.check(ctx, resp, "policy", s.policy.HealthCheck)
	}
	return resp, nil
}

func (s *Server) check(ctx context.Context, resp *lifecyclev1.HealthCheckResponse, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Printf("health: %s: %v", name, err)
		resp.Status = lifecyclev1.ServingStatusNotServing
		resp.Checks[name] = "unavailable"
		return
	}
	resp.Checks[name] = "ok"
}
