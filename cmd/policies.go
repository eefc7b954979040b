package cmd

import (
	"fmt"
	"os"

	"map-editor/core/config"
	"map-editor/core/database"
	"map-editor/core/logger"
	"map-editor/core/policy"
	"map-editor/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Inspect and publish layer edit policies",
}

var policiesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the policies of the configured source as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()

		set, err := loadPolicies(cmd, cfg, logg)
		if err != nil {
			return err
		}
		out, err := policy.Encode(set)
		if err != nil {
			return fmt.Errorf("failed to encode policies: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

var pushTarget string

var policiesPushCmd = &cobra.Command{
	Use:   "push [policies.yaml]",
	Short: "Validate a policy document and publish it to storage or the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()

		set, err := policy.NewFileSource(args[0]).Load(cmd.Context())
		if err != nil {
			return err
		}
		if len(set) == 0 {
			return fmt.Errorf("%s declares no layers", args[0])
		}

		switch pushTarget {
		case policy.SourceStorage:
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
			data, err := policy.Encode(set)
			if err != nil {
				return fmt.Errorf("failed to encode policies: %w", err)
			}
			if err := storage.WriteObject(cmd.Context(), client, cfg.Storage.Bucket, cfg.Policy.Object, data, "application/yaml"); err != nil {
				return err
			}
		case policy.SourceDatabase:
			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}
			src := policy.NewDatabaseSource(db)
			if err := src.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := src.Save(cmd.Context(), set); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown push target %q (want storage or database)", pushTarget)
		}

		logg.Info("Policies published", zap.String("target", pushTarget), zap.Strings("layers", set.LayerIDs()))
		return nil
	},
}

var policiesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the policy tables of the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		failed := false
		for _, table := range []string{"layer_policies", "layer_fields"} {
			missing, err := database.MissingColumns(db, table, policy.RequiredColumns[table])
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				failed = true
				logg.Error("Policy table is missing columns", zap.String("table", table), zap.Strings("missing", missing))
				continue
			}
			logg.Info("Policy table ok", zap.String("table", table))
		}
		if failed {
			return fmt.Errorf("policy tables do not match the expected schema")
		}
		return nil
	},
}

func init() {
	policiesPushCmd.Flags().StringVar(&pushTarget, "to", policy.SourceStorage, "publish target: storage or database")
	policiesCmd.AddCommand(policiesShowCmd, policiesPushCmd, policiesCheckCmd)
	RootCmd.AddCommand(policiesCmd)
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

// openPolicySource builds the configured policy source with whatever
// backend it needs.
func openPolicySource(cfg *config.Config, logg *zap.Logger) (policy.Source, error) {
	b := policy.Backends{Bucket: cfg.Storage.Bucket}
	switch cfg.Policy.Source {
	case policy.SourceStorage:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		b.Storage = client
	case policy.SourceDatabase:
		b.DB = connectOptional(cfg.Database, logg)
	}
	return policy.NewSource(cfg.Policy, b)
}
