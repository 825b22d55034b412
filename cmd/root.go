package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/mittwald/pgprobe/internal/config"
	"github.com/mittwald/pgprobe/internal/helper"
	"github.com/mittwald/pgprobe/pkg/probe"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envVar       string
	envFile      string
	configFile   string
	logLevel     string
	outputFormat string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envVar, "env-var", config.DefaultEnvVar, "environment variable holding the connection string")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file (defaults to ./.env if present)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "read the connection string from the postgres block of this .hcl file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", log.WarnLevel.String(), "log level (debug, info, warning, error)")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", probe.OutputText, "output format (text, json)")
}

type prober interface {
	Run(ctx context.Context) (*probe.Result, error)
}

var newProbe = func(cfg *config.Postgres) (prober, error) {
	return probe.NewPostgresProbe(cfg)
}

var rootCmd = &cobra.Command{
	Use:           "pgprobe",
	Short:         "pgprobe - PostgreSQL connectivity smoke test",
	Long:          "pgprobe connects to a PostgreSQL server, asks it for its current time and prints the answer",
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbe(cmd.Context(), cmd.OutOrStdout())
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

// loadConfig resolves where the connection string comes from. Nothing in
// here touches the network.
func loadConfig() (*config.Postgres, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, probe.NewError(probe.KindConfiguration, err)
	}

	pg := config.NewPostgres(helper.SetDefaultStringIfEmpty(envVar, config.DefaultEnvVar, "env-var"))
	if configFile != "" {
		if err := pg.LoadFromFile(configFile); err != nil {
			return nil, probe.NewError(probe.KindConfiguration, err)
		}
	}

	return pg, nil
}

func runProbe(ctx context.Context, out io.Writer) error {
	if err := probe.ValidateOutput(outputFormat); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := newProbe(cfg)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	return probe.Write(out, result, outputFormat, isTerminal(out))
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
