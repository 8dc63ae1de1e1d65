package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjordsim/dispatch/internal/config"
)

type serverFlags struct {
	configFile string
	killOnExit bool
	debug      bool
}

func rootCmd() *cobra.Command {
	flags := &serverFlags{}

	c := &cobra.Command{
		Use:     "dispatchd",
		Short:   "gRPC daemon that dispatches jobs to a local or LSF backend",
		Example: "dispatchd --config dispatchd.yaml",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(flags.debug)

			cfg := config.Default()
			if flags.configFile != "" {
				var err error
				if cfg, err = config.Load(flags.configFile); err != nil {
					return err
				}
			}

			return runServer(cmd.Context(), cfg, flags)
		},
	}

	c.Flags().StringVar(&flags.configFile, "config", "", "Path to YAML config file")
	c.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logs")

	c.Flags().BoolVar(
		&flags.killOnExit,
		"kill-on-exit",
		false,
		"Kill outstanding jobs on shutdown instead of leaving them to the backend",
	)

	return c
}

func configureLogging(debug bool) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})

	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
