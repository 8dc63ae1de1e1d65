package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	api "github.com/fjordsim/dispatch/api/v1"
	"github.com/fjordsim/dispatch/internal/tlsconfig"
)

// TODO: Inject version at build time.
const version = "0.1.0"

type config struct {
	serverHostname string
	serverPort     string
	caCertPath     string
	certPath       string
	keyPath        string
}

// credentials returns mTLS transport credentials when certificate paths are
// given, plaintext credentials otherwise, matching the server's two modes.
func (cfg *config) credentials() (credentials.TransportCredentials, error) {
	if cfg.certPath == "" && cfg.keyPath == "" && cfg.caCertPath == "" {
		return insecure.NewCredentials(), nil
	}

	tlsConfig, err := tlsconfig.Setup(&tlsconfig.Config{
		CertFile:   cfg.certPath,
		KeyFile:    cfg.keyPath,
		CAFile:     cfg.caCertPath,
		ServerName: cfg.serverHostname,
	})
	if err != nil {
		return nil, err
	}

	return credentials.NewTLS(tlsConfig), nil
}

type cli struct {
	client api.DispatchServiceClient
	conn   *grpc.ClientConn
}

func newCLI() *cli {
	return &cli{}
}

func (c *cli) rootCmd() *cobra.Command {
	cfg := &config{}

	command := &cobra.Command{
		Use:          "dispatchctl",
		Short:        "CLI for interacting with the dispatch server",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			creds, err := cfg.credentials()
			if err != nil {
				return err
			}

			c.conn, err = grpc.NewClient(
				net.JoinHostPort(
					cfg.serverHostname,
					cfg.serverPort,
				),
				grpc.WithTransportCredentials(creds),
			)
			if err != nil {
				return err
			}

			c.client = api.NewDispatchServiceClient(c.conn)

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.conn == nil {
				return nil
			}

			// Connection needs to remain open for duration of any child commands.
			return c.conn.Close()
		},
	}

	command.AddCommand(
		c.submitCmd(),
		c.statusCmd(),
		c.killCmd(),
		c.listCmd(),
		c.watchCmd(),
	)

	command.CompletionOptions.HiddenDefaultCmd = true

	command.PersistentFlags().StringVar(
		&cfg.serverHostname,
		"server-hostname",
		"localhost",
		"Server hostname",
	)

	command.PersistentFlags().StringVar(
		&cfg.serverPort,
		"server-port",
		"7070",
		"Server port",
	)

	command.PersistentFlags().StringVar(
		&cfg.certPath,
		"cert-path",
		"",
		"Path to client TLS certificate",
	)

	command.PersistentFlags().StringVar(
		&cfg.keyPath,
		"key-path",
		"",
		"Path to client TLS private key",
	)

	command.PersistentFlags().StringVar(
		&cfg.caCertPath,
		"ca-cert-path",
		"",
		"Path to CA certificate for mTLS",
	)

	return command
}

func (c *cli) submitCmd() *cobra.Command {
	var (
		name       string
		numCPU     int32
		runDir     string
		maxRuntime time.Duration
	)

	command := &cobra.Command{
		Use:     "submit [flags] EXECUTABLE [ARGS]",
		Short:   "Submit a new job",
		Example: "  dispatchctl submit ./forward_model --iteration 3",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.SubmitJob(
				cmd.Context(),
				&api.SubmitJobRequest{
					Executable:        args[0],
					Args:              args[1:],
					Name:              name,
					NumCpu:            numCPU,
					RunDir:            runDir,
					MaxRuntimeSeconds: int64(maxRuntime.Seconds()),
				},
			)
			if err != nil {
				return mapError(err)
			}

			cmd.OutOrStdout().Write([]byte(resp.Id + "\n"))

			return nil
		},
	}

	command.Flags().StringVar(&name, "name", "", "Job name shown to the backend")
	command.Flags().Int32Var(&numCPU, "num-cpu", 0, "CPU slots to reserve")
	command.Flags().StringVar(&runDir, "run-dir", "", "Working directory for the job")
	command.Flags().DurationVar(
		&maxRuntime,
		"max-runtime",
		0,
		"Kill the job after this long (0 means no limit)",
	)

	// Stop parsing args after first position so that flags passed to the
	// executable to run are not interpreted by the dispatchctl CLI and are
	// passed as-is, e.g. `--iteration` is an argument to `./forward_model`
	// _not_ to `dispatchctl submit`:
	//	`dispatchctl submit ./forward_model --iteration 3`
	command.Flags().SetInterspersed(false)

	return command
}

func (c *cli) statusCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "status [flags] JOB_ID",
		Short:   "Query status of job",
		Example: "  dispatchctl status 9302033c-f8f7-4b6e-9363-a7aa201cce1b",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.JobStatus(
				cmd.Context(),
				&api.JobStatusRequest{Id: args[0]},
			)
			if err != nil {
				return mapError(err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintf(w, "STATE\tEXIT CODE\tHANDLE\tTIMED OUT\tFAILURE\t\n")
			fmt.Fprintf(
				w,
				"%s\t%d\t%s\t%t\t%s\t\n",
				mapState(resp.Job.State),
				resp.Job.ExitCode,
				resp.Job.Handle,
				resp.Job.TimedOut,
				resp.Job.Failure,
			)

			w.Flush()

			return nil
		},
	}

	return command
}

func (c *cli) killCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "kill [flags] JOB_ID",
		Short:   "Kill a job",
		Example: "  dispatchctl kill 9302033c-f8f7-4b6e-9363-a7aa201cce1b",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.client.KillJob(
				cmd.Context(),
				&api.KillJobRequest{Id: args[0]},
			); err != nil {
				return mapError(err)
			}

			return nil
		},
	}

	return command
}

func (c *cli) listCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "list [flags]",
		Short:   "List all jobs",
		Example: "  dispatchctl list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.ListJobs(
				cmd.Context(),
				&api.ListJobsRequest{},
			)
			if err != nil {
				return mapError(err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintf(w, "ID\tNAME\tBACKEND\tSTATE\tSUBMITTED\t\n")
			for _, job := range resp.Jobs {
				fmt.Fprintf(
					w,
					"%s\t%s\t%s\t%s\t%s\t\n",
					job.Id,
					job.Name,
					job.Backend,
					mapState(job.State),
					formatTime(job.SubmittedAtUnix),
				)
			}

			w.Flush()

			return nil
		},
	}

	return command
}

func (c *cli) watchCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "watch [flags] JOB_ID",
		Short:   "Watch a job until it reaches a terminal state",
		Example: "  dispatchctl watch 9302033c-f8f7-4b6e-9363-a7aa201cce1b",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stream, err := c.client.WatchJob(
				cmd.Context(),
				&api.WatchJobRequest{Id: args[0]},
			)
			if err != nil {
				return mapError(err)
			}

			for {
				resp, err := stream.Recv()
				if err != nil {
					if err == io.EOF {
						break
					}

					if status.Code(err) == codes.Canceled {
						break
					}

					return mapError(err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), mapState(resp.Job.State))
			}

			return nil
		},
	}

	return command
}

// mapError translates gRPC errors to human-readable messages.
func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return errors.New("job not found")
	case codes.PermissionDenied:
		return errors.New("permission denied")
	case codes.Unauthenticated:
		return errors.New("not authenticated")
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%s", st.Message())
	case codes.Unavailable:
		return errors.New("server unavailable")
	default:
		return fmt.Errorf("%s", st.Message())
	}
}

// mapState translates gRPC JobState enum values to human-readable strings.
func mapState(state api.JobState) string {
	switch state {
	case api.JobState_JOB_STATE_NOT_ACTIVE:
		return "Not active"
	case api.JobState_JOB_STATE_WAITING:
		return "Waiting"
	case api.JobState_JOB_STATE_RUNNING:
		return "Running"
	case api.JobState_JOB_STATE_DONE:
		return "Done"
	case api.JobState_JOB_STATE_EXIT:
		return "Failed"
	case api.JobState_JOB_STATE_IS_KILLED:
		return "Killed"
	default:
		return fmt.Sprintf("Unknown(%d)", state)
	}
}

// formatTime renders a Unix timestamp, or a dash when the event has not
// happened yet.
func formatTime(unix int64) string {
	if unix == 0 {
		return "-"
	}

	return time.Unix(unix, 0).Format(time.RFC3339)
}
