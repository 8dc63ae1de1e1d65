// Package auth authorises dispatch API calls based on the role carried in
// the client certificate's organizational unit.
package auth

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

type Permission string

const (
	PermissionJobSubmit Permission = "job:submit"
	PermissionJobKill   Permission = "job:kill"
	PermissionJobQuery  Permission = "job:query"
	PermissionJobWatch  Permission = "job:watch"
)

type Role string

const (
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

var RolePermissions = map[Role][]Permission{
	RoleOperator: {
		PermissionJobSubmit,
		PermissionJobKill,
		PermissionJobQuery,
		PermissionJobWatch,
	},
	RoleViewer: {PermissionJobQuery, PermissionJobWatch},
}

var MethodPermissions = map[string]Permission{
	"/dispatch.v1.DispatchService/SubmitJob": PermissionJobSubmit,
	"/dispatch.v1.DispatchService/KillJob":   PermissionJobKill,
	"/dispatch.v1.DispatchService/JobStatus": PermissionJobQuery,
	"/dispatch.v1.DispatchService/ListJobs":  PermissionJobQuery,
	"/dispatch.v1.DispatchService/WatchJob":  PermissionJobWatch,
}

// ClientIdentity returns the common name and organizational unit of the
// verified client certificate on the connection.
func ClientIdentity(ctx context.Context) (string, string, error) {
	p, ok := peer.FromContext(ctx)
	if !ok {
		return "", "", errors.New("no peer info in context")
	}

	tlsInfo, ok := p.AuthInfo.(credentials.TLSInfo)
	if !ok {
		return "", "", errors.New("no TLS info on peer")
	}

	if len(tlsInfo.State.VerifiedChains) == 0 ||
		len(tlsInfo.State.VerifiedChains[0]) == 0 {
		return "", "", errors.New("no verified chains in TLS info")
	}

	cert := tlsInfo.State.VerifiedChains[0][0]

	cn := cert.Subject.CommonName

	var ou string
	if len(cert.Subject.OrganizationalUnit) > 0 {
		ou = cert.Subject.OrganizationalUnit[0]
	}

	return cn, ou, nil
}

// IsAuthorised reports whether the role may call the gRPC method.
func IsAuthorised(role Role, method string) error {
	required, exists := MethodPermissions[method]
	if !exists {
		return errors.Errorf("method %s has no permission mapping", method)
	}

	permissions, ok := RolePermissions[role]
	if !ok {
		return errors.Errorf("unknown role %q", role)
	}

	if !slices.Contains(permissions, required) {
		return errors.Errorf("role %q lacks permission %s", role, required)
	}

	return nil
}

// Authorise checks the calling client's certificate role against the
// method.
func Authorise(ctx context.Context, method string) error {
	_, ou, err := ClientIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get client identity")
	}

	if err := IsAuthorised(Role(ou), method); err != nil {
		return errors.Wrap(err, "failed to authorise client")
	}

	return nil
}
