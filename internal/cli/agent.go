package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kavirubc/findora/internal/agent"
	"github.com/Kavirubc/findora/internal/engine"
	"github.com/Kavirubc/findora/internal/notify"
	"github.com/spf13/cobra"
)

func newAgentCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the autonomous matching agent",
		Long: `Run the background agent loop: poll for unprocessed items, extract
features, rank candidates and persist high-confidence matches. Stops
cleanly on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			a := agent.New(rt.store, rt.extractor, engine.New(), notify.NewLogNotifier(nil), agent.Options{
				MatchThreshold:        cfg.Matching.MatchThreshold,
				NotificationThreshold: cfg.Matching.NotificationThreshold,
				PollInterval:          time.Duration(cfg.Agent.PollIntervalSeconds) * time.Second,
				ObserveBatchSize:      cfg.Agent.ObserveBatchSize,
				CandidatePoolSize:     cfg.Matching.CandidatePoolSize,
				TopK:                  cfg.Matching.TopK,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if once {
				a.RunCycle(ctx)
				return nil
			}

			fmt.Printf("Agent running (poll interval %ds). Press Ctrl+C to stop.\n",
				cfg.Agent.PollIntervalSeconds)
			a.Run(ctx)
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")

	return cmd
}
