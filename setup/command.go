package setup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barlind/bleurgh/cliout"
	"github.com/barlind/bleurgh/env"
)

// NewCommand creates the `setup` command tree for sharing and applying
// team configuration.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Share and apply team configuration",
		Long: `Exchange FASTLY_ environment variables with your team as a single
portable string. Credentials are never included.`,
	}

	cmd.AddCommand(newEncodeCommand())
	cmd.AddCommand(newDecodeCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newRunCommand())
	return cmd
}

func newEncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Encode the current FASTLY_ environment into a portable string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := CollectFromEnvironment(env.OS())
			if len(config) == 0 {
				return fmt.Errorf("no %s variables set (credentials are excluded)", Prefix)
			}

			result := Validate(config)
			for _, w := range result.Warnings {
				cliout.Warning("%s", w)
			}
			if !result.Valid {
				return fmt.Errorf("%w: %s", ErrSecurityValidation, result.JoinedErrors())
			}

			encoded, err := Encode(config)
			if err != nil {
				return err
			}

			cliout.Info("Share this with your team:")
			cliout.Plain("%s", encoded)
			return nil
		},
	}
}

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <configuration>",
		Short: "Decode and validate a portable configuration string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, warnings, err := Decode(args[0])
			if err != nil {
				return err
			}
			for _, w := range warnings {
				cliout.Warning("%s", w)
			}

			return cliout.Print(config, func() {
				for _, key := range config.Keys() {
					cliout.Label(key, config[key])
				}
			})
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <configuration>",
		Short: "Validate a portable configuration string and report every finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, _, err := Decode(args[0])
			if err == nil {
				// Re-run the validator for the full findings report;
				// Decode only surfaces the verdict.
				result := Validate(config)
				return cliout.Print(result, func() {
					cliout.Success("Configuration is valid (%d entries).", len(config))
					for _, w := range result.Warnings {
						cliout.Warning("%s", w)
					}
				})
			}
			cliout.Error("%v", err)
			return err
		},
	}
}

func newRunCommand() *cobra.Command {
	var (
		execute bool
		force   bool
		keys    []string
	)

	cmd := &cobra.Command{
		Use:   "run <configuration>",
		Short: "Apply a portable configuration to this machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executor := NewExecutor(cliout.Console())
			return executor.Execute(args[0], Options{
				AllowExecution: execute,
				Force:          force,
				ExportKeys:     keys,
			})
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "Write the export block to your shell config file")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even when variables differ from the current environment")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Only export the listed keys")
	return cmd
}

// CollectFromEnvironment gathers every namespace variable from the
// environment into a Configuration, excluding credential-shaped keys:
// tokens are never part of the portable configuration.
func CollectFromEnvironment(environ env.Environment) Configuration {
	config := Configuration{}
	for _, key := range environ.KeysWithPrefix(Prefix) {
		if env.IsCredentialKey(key) {
			continue
		}
		if value := environ.Get(key); value != "" {
			config[key] = value
		}
	}
	return config
}
