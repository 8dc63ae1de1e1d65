//go:build !e2e

package auth_test

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"testing"

	"github.com/fjordsim/dispatch/internal/auth"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

func peerContext(t *testing.T, cn, ou string) context.Context {
	t.Helper()

	cert := &x509.Certificate{
		Subject: pkix.Name{
			CommonName:         cn,
			OrganizationalUnit: []string{ou},
		},
	}

	authInfo := credentials.TLSInfo{
		State: tls.ConnectionState{
			VerifiedChains: [][]*x509.Certificate{{cert}},
		},
	}

	return peer.NewContext(context.Background(), &peer.Peer{AuthInfo: authInfo})
}

func TestIsAuthorised(t *testing.T) {
	t.Parallel()

	scenarios := map[string]struct {
		role         auth.Role
		method       string
		isAuthorised bool
	}{
		"Test operator can submit job": {
			role:         auth.RoleOperator,
			method:       "/dispatch.v1.DispatchService/SubmitJob",
			isAuthorised: true,
		},
		"Test operator can kill job": {
			role:         auth.RoleOperator,
			method:       "/dispatch.v1.DispatchService/KillJob",
			isAuthorised: true,
		},
		"Test operator can query job": {
			role:         auth.RoleOperator,
			method:       "/dispatch.v1.DispatchService/JobStatus",
			isAuthorised: true,
		},
		"Test operator can watch job": {
			role:         auth.RoleOperator,
			method:       "/dispatch.v1.DispatchService/WatchJob",
			isAuthorised: true,
		},

		"Test viewer cannot submit job": {
			role:         auth.RoleViewer,
			method:       "/dispatch.v1.DispatchService/SubmitJob",
			isAuthorised: false,
		},
		"Test viewer cannot kill job": {
			role:         auth.RoleViewer,
			method:       "/dispatch.v1.DispatchService/KillJob",
			isAuthorised: false,
		},
		"Test viewer can query job": {
			role:         auth.RoleViewer,
			method:       "/dispatch.v1.DispatchService/JobStatus",
			isAuthorised: true,
		},
		"Test viewer can list jobs": {
			role:         auth.RoleViewer,
			method:       "/dispatch.v1.DispatchService/ListJobs",
			isAuthorised: true,
		},
		"Test viewer can watch job": {
			role:         auth.RoleViewer,
			method:       "/dispatch.v1.DispatchService/WatchJob",
			isAuthorised: true,
		},

		"Test unknown method returns error": {
			role:         auth.RoleOperator,
			method:       "/dispatch.v1.DispatchService/Unknown",
			isAuthorised: false,
		},
		"Test unknown role returns error": {
			role:         auth.Role("Unknown"),
			method:       "/dispatch.v1.DispatchService/JobStatus",
			isAuthorised: false,
		},
	}

	for scenario, config := range scenarios {
		config := config
		t.Run(scenario, func(t *testing.T) {
			t.Parallel()

			err := auth.IsAuthorised(config.role, config.method)

			if config.isAuthorised && err != nil {
				t.Errorf(
					"expected authorised not to return error: got '%v'",
					err,
				)
			}

			if !config.isAuthorised && err == nil {
				t.Errorf("expected not authorised to return error")
			}
		})
	}

	t.Run("Test operator covers every mapped method", func(t *testing.T) {
		t.Parallel()

		for method := range auth.MethodPermissions {
			if err := auth.IsAuthorised(auth.RoleOperator, method); err != nil {
				t.Errorf(
					"expected operator to be authorised for '%s': got '%v'",
					method,
					err,
				)
			}
		}
	})
}

func TestClientIdentity(t *testing.T) {
	t.Parallel()

	t.Run("Test peer with valid TLS info", func(t *testing.T) {
		ctx := peerContext(t, "alice", "operator")

		cn, ou, err := auth.ClientIdentity(ctx)
		if err != nil {
			t.Errorf("expected not to receive error: got '%v'", err)
		}

		if cn != "alice" {
			t.Errorf("expected CN: got '%s', want 'alice'", cn)
		}

		if ou != "operator" {
			t.Errorf("expected OU: got '%s', want 'operator'", ou)
		}
	})

	t.Run("Test peer with no TLS info", func(t *testing.T) {
		p := &peer.Peer{AuthInfo: nil}

		ctx := peer.NewContext(context.Background(), p)

		cn, ou, err := auth.ClientIdentity(ctx)
		if err == nil {
			t.Errorf("expected to receive error")
		}

		if cn != "" {
			t.Errorf("expected CN to be empty: got '%s'", cn)
		}

		if ou != "" {
			t.Errorf("expected OU to be empty: got '%s'", ou)
		}
	})

	t.Run("Test peer with empty verified chains", func(t *testing.T) {
		authInfo := credentials.TLSInfo{State: tls.ConnectionState{}}

		p := &peer.Peer{AuthInfo: authInfo}

		ctx := peer.NewContext(context.Background(), p)

		if _, _, err := auth.ClientIdentity(ctx); err == nil {
			t.Errorf("expected to receive error")
		}
	})

	t.Run("Test no peer in context", func(t *testing.T) {
		cn, ou, err := auth.ClientIdentity(context.Background())
		if err == nil {
			t.Errorf("expected to receive error")
		}

		if cn != "" {
			t.Errorf("expected CN to be empty: got '%s'", cn)
		}

		if ou != "" {
			t.Errorf("expected OU to be empty: got '%s'", ou)
		}
	})
}

func TestAuthorise(t *testing.T) {
	t.Parallel()

	t.Run("Test operator can submit job", func(t *testing.T) {
		ctx := peerContext(t, "alice", "operator")

		err := auth.Authorise(ctx, "/dispatch.v1.DispatchService/SubmitJob")
		if err != nil {
			t.Errorf("expected not to receive error: got '%v'", err)
		}
	})

	t.Run("Test viewer cannot submit job", func(t *testing.T) {
		ctx := peerContext(t, "bob", "viewer")

		err := auth.Authorise(ctx, "/dispatch.v1.DispatchService/SubmitJob")
		if err == nil {
			t.Errorf("expected to receive error")
		}
	})

	t.Run("Test viewer can query job", func(t *testing.T) {
		ctx := peerContext(t, "bob", "viewer")

		err := auth.Authorise(ctx, "/dispatch.v1.DispatchService/JobStatus")
		if err != nil {
			t.Errorf("expected not to receive error: got '%v'", err)
		}
	})

	t.Run("Test unknown role", func(t *testing.T) {
		ctx := peerContext(t, "charlie", "admin")

		err := auth.Authorise(ctx, "/dispatch.v1.DispatchService/JobStatus")
		if err == nil {
			t.Errorf("expected to receive error")
		}
	})

	t.Run("Test invalid context", func(t *testing.T) {
		err := auth.Authorise(context.Background(), "/dispatch.v1.DispatchService/JobStatus")
		if err == nil {
			t.Errorf("expected to receive error")
		}
	})
}
