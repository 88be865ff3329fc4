package purge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barlind/bleurgh/cliout"
	"github.com/barlind/bleurgh/env"
	"github.com/barlind/bleurgh/progress"
)

// NewCommand creates the `purge` command.
func NewCommand() *cobra.Command {
	var (
		all     bool
		rawURL  string
		soft    bool
		apiBase string
	)

	cmd := &cobra.Command{
		Use:   "purge <environment> [keys...]",
		Short: "Purge cached content across an environment's services",
		Long: `Purge cached content on Fastly by surrogate key, full-cache flush or URL.

The environment name selects the services to purge via
FASTLY_<ENV>_SERVICE_IDS. Keys default to FASTLY_DEFAULT_PURGE_KEYS.
URL purges (--url) target no environment, so the argument is optional.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("url") {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			environ := env.OS()

			token, err := APIToken(environ)
			if err != nil {
				return err
			}

			client := NewClient(token, WithSoftPurge(soft), WithAPIBase(apiBase))

			if rawURL != "" {
				result, err := client.PurgeURL(cmd.Context(), rawURL)
				if err != nil {
					return err
				}
				return cliout.Print([]Result{result}, func() {
					cliout.Success("Purged %s", rawURL)
				})
			}

			envName := args[0]
			serviceIDs, err := ServiceIDs(environ, envName)
			if err != nil {
				return err
			}
			names := ServiceNames(environ)

			keys := args[1:]
			if !all && len(keys) == 0 {
				keys = DefaultPurgeKeys(environ)
				if len(keys) == 0 {
					return fmt.Errorf("no purge keys given and %s is not set (use --all for a full flush)", defaultKeysKey)
				}
			}

			tracker := progress.NewTracker()
			tasks := make([]*progress.Task, len(serviceIDs))
			for i, serviceID := range serviceIDs {
				tasks[i] = tracker.Add(DisplayName(names, i, serviceID))
			}
			if cliout.GetFormat() == cliout.FormatDefault {
				tracker.Start()
			}

			var results []Result
			var firstErr error
			for i, serviceID := range serviceIDs {
				task := tasks[i]
				task.Start()

				if all {
					task.SetDetail("(full flush)")
					result, err := client.PurgeAll(cmd.Context(), serviceID)
					if err != nil {
						task.Fail(err.Error())
						if firstErr == nil {
							firstErr = err
						}
						continue
					}
					results = append(results, result)
					task.Complete()
					continue
				}

				for _, key := range keys {
					task.SetDetail(fmt.Sprintf("(%s)", key))
					result, err := client.PurgeKey(cmd.Context(), serviceID, key)
					if err != nil {
						task.Fail(err.Error())
						if firstErr == nil {
							firstErr = err
						}
						break
					}
					results = append(results, result)
				}
				if task.Status() != progress.TaskStatusFailed {
					task.SetDetail(fmt.Sprintf("(%d keys)", len(keys)))
					task.Complete()
				}
			}

			tracker.Stop()

			if format := cliout.GetFormat(); format != cliout.FormatDefault {
				printErr := cliout.Print(results, func() {})
				if firstErr != nil {
					return firstErr
				}
				return printErr
			}

			tracker.Summary()
			return firstErr
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Flush the entire cache of every service in the environment")
	cmd.Flags().StringVar(&rawURL, "url", "", "Purge a single URL instead of surrogate keys")
	cmd.Flags().BoolVar(&soft, "soft", false, "Soft purge: mark content stale instead of evicting it")
	cmd.Flags().StringVar(&apiBase, "api", DefaultAPIBase, "Fastly API endpoint")
	_ = cmd.Flags().MarkHidden("api")

	return cmd
}
