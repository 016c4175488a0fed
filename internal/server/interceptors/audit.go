package interceptors

import (
	"context"
	"encoding/json"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
)

// AuditUnary returns a unary server interceptor that records an access_denied audit entry
// whenever an authenticated caller is refused with PermissionDenied. It must run after AuthUnary.
// skipMethods is the set of full method names never audited.
// Logging is best-effort: failures do not change the RPC result.
func AuditUnary(auditLog audit.AuditLogger, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if auditLog == nil || skipMethods[info.FullMethod] || status.Code(err) != codes.PermissionDenied {
			return resp, err
		}
		caller, ok := GetCaller(ctx)
		if !ok {
			return resp, err
		}
		details, _ := json.Marshal(map[string]string{
			"method": audit.MethodName(info.FullMethod),
			"role":   caller.Role,
			"reason": status.Convert(err).Message(),
		})
		auditLog.Log(ctx, &domain.AuditLog{
			ActorEmail: caller.Email,
			Action:     audit.ActionAccessDenied,
			Details:    string(details),
			IP:         ClientIP(ctx),
		})
		return resp, err
	}
}

// ClientIP returns the client IP from gRPC metadata (x-forwarded-for, x-real-ip) or peer, or "unknown".
func ClientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("x-forwarded-for"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				if i := strings.Index(s, ","); i > 0 {
					s = strings.TrimSpace(s[:i])
				}
				return s
			}
		}
		if vals := md.Get("x-real-ip"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				return s
			}
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}
	return "unknown"
}
