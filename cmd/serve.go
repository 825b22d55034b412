package cmd

import (
	"time"

	"github.com/mittwald/pgprobe/pkg/probe"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	listenAddr    string
	statusTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(serve)
	serve.Flags().StringVarP(&listenAddr, "listen", "l", ":9102", "address to listen for status requests")
	serve.Flags().DurationVar(&statusTimeout, "timeout", probe.DefaultStatusTimeout, "upper bound for a single status probe")
}

var serve = &cobra.Command{
	Use:   "serve",
	Short: "Serve the probe result over HTTP",
	Long:  "This sub-command serves GET /status. Every request opens its own connection, runs the probe and closes the connection again.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p, err := probe.NewPostgresProbe(cfg)
		if err != nil {
			return err
		}

		log.Infof("status server for %s listens on %s", p.Target(), listenAddr)
		if err := probe.RunStatusServer(cmd.Context(), probe.NewStatusHandler(p, statusTimeout), listenAddr); err != nil {
			return err
		}

		log.Info("status server stopped without error")
		return nil
	},
}
