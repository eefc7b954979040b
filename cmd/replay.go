package cmd

import (
	"fmt"
	"os"

	"map-editor/core/config"
	"map-editor/core/logger"
	"map-editor/core/policy"
	"map-editor/feature/replay"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var replayPolicies string

// replayCmd runs a scripted session without a renderer.
var replayCmd = &cobra.Command{
	Use:   "replay [script.yaml]",
	Short: "Replay a scripted selection and edit session",
	Long: `Applies the steps of a YAML script to a fresh session and prints the
reconciled selection, the edit buffer and the map requests after every step.
Policies come from --policies, or from the configured policy source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		script, err := replay.Load(args[0])
		if err != nil {
			return err
		}

		var set policy.Set
		if replayPolicies != "" {
			set, err = policy.NewFileSource(replayPolicies).Load(cmd.Context())
		} else {
			set, err = loadPolicies(cmd, cfg, logg)
		}
		if err != nil {
			return err
		}

		results := replay.Run(script, set, logg.Named("replay"))
		out, err := yaml.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to render results: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayPolicies, "policies", "", "policy document to use instead of the configured source")
	RootCmd.AddCommand(replayCmd)
}

// loadPolicies loads the policy set from the configured source once.
func loadPolicies(cmd *cobra.Command, cfg *config.Config, logg *zap.Logger) (policy.Set, error) {
	source, err := openPolicySource(cfg, logg)
	if err != nil {
		return nil, err
	}
	return source.Load(cmd.Context())
}
