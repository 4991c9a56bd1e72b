package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netmetric/netmetric/config"
	"github.com/netmetric/netmetric/log"
	"github.com/netmetric/netmetric/metrics"
	"github.com/netmetric/netmetric/monitor"
	"github.com/netmetric/netmetric/registry"
)

// NewMonitorCommand creates the monitor command. It runs the Go runtime
// monitor and periodically prints harvested batches until interrupted.
func NewMonitorCommand() *cobra.Command {
	var (
		confPath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Harvest Go runtime metrics until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(confPath)
			if err != nil {
				return err
			}

			logger, cleanup, err := log.New(cfg.Logger)
			if err != nil {
				return err
			}
			defer cleanup()

			factory, err := metrics.NewFactory(cfg.Metrics)
			if err != nil {
				return err
			}

			reg, err := registry.New(cfg.Registry, logger.Logger)
			if err != nil {
				return err
			}

			mon, err := monitor.New(factory, cfg.Monitor)
			if err != nil {
				return err
			}
			reg.MustRegister(mon.Instruments()...)
			reg.AddUpdater(mon)

			if asJSON {
				reg.AddSink(registry.NewJSONSink(os.Stdout))
			} else {
				reg.AddSink(registry.NewLogSink(logger.Logger))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := reg.Start(ctx); err != nil {
				return err
			}
			defer reg.Stop()

			logger.WithField("registry", reg.ID()).Info("monitor started")
			<-ctx.Done()
			logger.Info("monitor stopping")
			return nil
		},
	}

	cmd.Flags().StringVar(&confPath, "conf", "", "path to config.yaml")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write batches as JSON to stdout")
	return cmd
}
