package main

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"

	api "github.com/fjordsim/dispatch/api/v1"
	"github.com/fjordsim/dispatch/internal/config"
	"github.com/fjordsim/dispatch/internal/driver"
	"github.com/fjordsim/dispatch/internal/queue"
	"github.com/fjordsim/dispatch/internal/tlsconfig"
)

type server struct {
	api.UnimplementedDispatchServiceServer

	manager    *queue.Manager
	cfg        *config.Config
	grpcServer *grpc.Server
}

func newServer(manager *queue.Manager, cfg *config.Config) *server {
	return &server{manager: manager, cfg: cfg}
}

func (s *server) start(listener net.Listener) error {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(contextCheckUnaryInterceptor),
	}

	// Without certificate material the server runs in plaintext and every
	// caller is trusted; with it, clients are verified and authorised by
	// their certificate role.
	if s.cfg.TLS.Enabled() {
		tlsConfig, err := tlsconfig.Setup(&tlsconfig.Config{
			CertFile: s.cfg.TLS.CertFile,
			KeyFile:  s.cfg.TLS.KeyFile,
			CAFile:   s.cfg.TLS.CAFile,
			Server:   true,
		})
		if err != nil {
			return errors.Wrap(err, "failed to set up TLS")
		}

		opts = append(opts,
			grpc.Creds(credentials.NewTLS(tlsConfig)),
			grpc.ChainUnaryInterceptor(authUnaryInterceptor),
			grpc.ChainStreamInterceptor(authStreamInterceptor),
		)
	}

	s.grpcServer = grpc.NewServer(opts...)

	api.RegisterDispatchServiceServer(s.grpcServer, s)

	return s.grpcServer.Serve(listener)
}

func (s *server) shutdown() {
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
}

func (s *server) SubmitJob(
	ctx context.Context,
	req *api.SubmitJobRequest,
) (*api.SubmitJobResponse, error) {
	if req.Executable == "" {
		return nil, status.Error(codes.InvalidArgument, "executable is empty")
	}

	id, err := s.manager.Submit(queue.SubmitRequest{
		SubmitRequest: driver.SubmitRequest{
			Executable: req.Executable,
			Args:       req.Args,
			NumCPU:     int(req.NumCpu),
			RunDir:     req.RunDir,
			JobName:    req.Name,
		},
		MaxRuntime: time.Duration(req.MaxRuntimeSeconds) * time.Second,
	})
	if err != nil {
		return nil, mapError("submit job", err)
	}

	return &api.SubmitJobResponse{Id: id}, nil
}

func (s *server) JobStatus(
	ctx context.Context,
	req *api.JobStatusRequest,
) (*api.JobStatusResponse, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is empty")
	}

	return &api.JobStatusResponse{
		Job: toAPIJob(s.manager.StatusOf(req.Id)),
	}, nil
}

func (s *server) KillJob(
	ctx context.Context,
	req *api.KillJobRequest,
) (*api.KillJobResponse, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is empty")
	}

	if err := s.manager.Kill(req.Id); err != nil {
		return nil, mapError("kill job", err)
	}

	return &api.KillJobResponse{}, nil
}

func (s *server) ListJobs(
	ctx context.Context,
	req *api.ListJobsRequest,
) (*api.ListJobsResponse, error) {
	snapshots := s.manager.List()

	jobs := make([]*api.Job, 0, len(snapshots))
	for _, snap := range snapshots {
		jobs = append(jobs, toAPIJob(snap))
	}

	return &api.ListJobsResponse{Jobs: jobs}, nil
}

func (s *server) WatchJob(
	req *api.WatchJobRequest,
	stream api.DispatchService_WatchJobServer,
) error {
	if req.Id == "" {
		return status.Error(codes.InvalidArgument, "id is empty")
	}

	if stream.Context().Err() != nil {
		return status.FromContextError(stream.Context().Err()).Err()
	}

	snap := s.manager.StatusOf(req.Id)
	if snap.Status == driver.StatusNotActive {
		return status.Error(codes.NotFound, "job not found")
	}

	sent := driver.StatusNotActive
	for {
		if snap.Status != sent {
			if err := stream.Send(&api.WatchJobResponse{
				Job: toAPIJob(snap),
			}); err != nil {
				log.WithField("job", req.Id).
					Warnf("Failed to stream status because %s", err)
				return status.Error(codes.DataLoss, "failed to stream status")
			}

			sent = snap.Status
		}

		if snap.Status.Terminal() {
			return nil
		}

		select {
		case <-stream.Context().Done():
			return status.FromContextError(stream.Context().Err()).Err()
		case <-time.After(s.watchInterval()):
		}

		snap = s.manager.StatusOf(req.Id)
	}
}

// watchInterval is how often WatchJob re-reads a job's snapshot. Status
// changes only become visible at the queue's poll cadence, so there is no
// point checking faster.
func (s *server) watchInterval() time.Duration {
	if s.cfg.PollInterval > 0 {
		return s.cfg.PollInterval
	}

	return time.Second
}

func toAPIJob(snap queue.JobSnapshot) *api.Job {
	job := &api.Job{
		Id:       snap.ID,
		Name:     snap.Name,
		Backend:  snap.Backend,
		State:    api.JobState(snap.Status),
		ExitCode: int32(snap.ExitCode),
		Handle:   snap.Handle,
		Failure:  snap.Failure,
		TimedOut: snap.TimedOut,
	}

	if !snap.SubmittedAt.IsZero() {
		job.SubmittedAtUnix = snap.SubmittedAt.Unix()
	}

	if !snap.StartedAt.IsZero() {
		job.StartedAtUnix = snap.StartedAt.Unix()
	}

	if !snap.EndedAt.IsZero() {
		job.EndedAtUnix = snap.EndedAt.Unix()
	}

	return job
}

// mapError translates queue and driver errors to gRPC errors.
func mapError(logMsg string, err error) error {
	switch {
	case errors.Is(err, queue.ErrJobNotFound):
		log.Warnf("Failed to %s because %s", logMsg, err)
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, queue.ErrStopped),
		errors.Is(err, queue.ErrNotFailed):
		log.Warnf("Failed to %s because %s", logMsg, err)
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.As(err, new(*driver.ConfigurationError)):
		log.Warnf("Failed to %s because %s", logMsg, err)
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.As(err, new(*driver.UnsupportedOperationError)):
		log.Warnf("Failed to %s because %s", logMsg, err)
		return status.Error(codes.Unimplemented, err.Error())

	case errors.As(err, new(*driver.SchedulerError)):
		log.Errorf("Failed to %s because %s", logMsg, err)
		return status.Error(codes.Unavailable, err.Error())

	default:
		log.Errorf("Failed to %s because %s", logMsg, err)
		return status.Error(codes.Internal, "internal server error")
	}
}

// contextCheckUnaryInterceptor rejects requests whose context is already
// cancelled.
func contextCheckUnaryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	if ctx.Err() != nil {
		return nil, status.FromContextError(ctx.Err()).Err()
	}

	return handler(ctx, req)
}
