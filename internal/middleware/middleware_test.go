package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/models"
)

type ping struct{}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc", token: "abc", ok: true},
		{header: "bearer abc", token: "abc", ok: true},
		{header: "Bearer ", ok: false},
		{header: "Basic abc", ok: false},
		{header: "abc", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		if token != tt.token || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v, want %q, %v", tt.header, token, ok, tt.token, tt.ok)
		}
	}
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "u1", "u1@example.com")
	if GetUserID(ctx) != "u1" || GetEmail(ctx) != "u1@example.com" {
		t.Errorf("identity = %q %q", GetUserID(ctx), GetEmail(ctx))
	}
	if GetUserID(context.Background()) != "" {
		t.Error("expected empty user ID on bare context")
	}
}

// capture returns a UnaryFunc recording the user ID it was called with.
func capture(userID *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*userID = GetUserID(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u1", Email: "u1@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   string
		code   connect.Code
	}{
		{name: "valid token", header: "Bearer " + token, want: "u1"},
		{name: "missing header", header: "", code: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Token " + token, code: connect.CodeUnauthenticated},
		{name: "garbage token", header: "Bearer nope", code: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := RequireAuth(jwtManager)(capture(&got))

			req := connect.NewRequest(&ping{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.code != 0 {
				if connect.CodeOf(err) != tt.code {
					t.Errorf("code = %v, want %v", connect.CodeOf(err), tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("user ID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)

	var got string
	handler := OptionalAuth(jwtManager)(capture(&got))

	req := connect.NewRequest(&ping{})
	req.Header().Set("Authorization", "Bearer invalid")
	if _, err := handler(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("invalid token produced user %q", got)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	failing := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("record missing"))
	}
	handler := LoggingInterceptor(logger)(failing)

	ctx := WithUser(context.Background(), "u1", "")
	if _, err := handler(ctx, connect.NewRequest(&ping{})); err == nil {
		t.Fatal("expected error to pass through")
	}

	out := buf.String()
	for _, want := range []string{"level=WARN", "user_id=u1", "code=not_found", "record missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New()
	ok := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&ping{}), nil
	}
	denied := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("no"))
	}

	MetricsInterceptor(m)(ok)(context.Background(), connect.NewRequest(&ping{}))
	MetricsInterceptor(m)(denied)(context.Background(), connect.NewRequest(&ping{}))

	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "permission_denied")); got != 1 {
		t.Errorf("permission_denied count = %v, want 1", got)
	}
}
