package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fjordsim/dispatch/internal/auth"
)

// authorise rejects the call unless the client certificate's role covers
// the method.
func authorise(ctx context.Context, method string) error {
	cn, ou, err := auth.ClientIdentity(ctx)
	if err != nil {
		log.Warnf("Failed to identify client because %s", err)
		return status.Error(codes.Unauthenticated, "not authenticated")
	}

	if err := auth.IsAuthorised(auth.Role(ou), method); err != nil {
		log.WithFields(log.Fields{
			"cn":     cn,
			"role":   ou,
			"method": method,
		}).Warnf("Refused client call because %s", err)

		return status.Error(codes.PermissionDenied, "not authorised")
	}

	return nil
}

func authUnaryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	if err := authorise(ctx, info.FullMethod); err != nil {
		return nil, err
	}

	return handler(ctx, req)
}

func authStreamInterceptor(
	srv any,
	ss grpc.ServerStream,
	info *grpc.StreamServerInfo,
	handler grpc.StreamHandler,
) error {
	if err := authorise(ss.Context(), info.FullMethod); err != nil {
		return err
	}

	return handler(srv, ss)
}
