package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/desitranslate/desi"
	"github.com/desitranslate/desi/internal/app"
	"github.com/desitranslate/desi/internal/config"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		path     string
		printEnv bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP translation API",
		Long: `Run the HTTP translation API. Configuration is read from --config, then
CONFIG_PATH, then ./desi.yaml when it exists; environment variables
override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printEnv {
				help, err := config.Description()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, help)
				return nil
			}

			var (
				cfg *config.Config
				err error
			)
			if path != "" {
				cfg, err = config.LoadFile(path, true)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, cfg, app.NewLogger(cfg.Log))
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "YAML configuration file")
	cmd.Flags().BoolVar(&printEnv, "print-env", false, "list the supported environment variables and exit")
	return cmd
}

type versionInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Name:      desi.Name,
				Version:   desi.FullVersion(),
				Commit:    desi.GitCommit,
				BuildDate: desi.BuildDate,
				GoVersion: runtime.Version(),
			}
			return c.emit(info, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s\n", info.Name, info.Version)
				fmt.Fprintf(w, "  commit:  %s\n", info.Commit)
				fmt.Fprintf(w, "  built:   %s\n", info.BuildDate)
				fmt.Fprintf(w, "  go:      %s\n", info.GoVersion)
			})
		},
	}
}
