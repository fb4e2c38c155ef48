package cli

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sonyho2715/wealthpro-cloud/internal/fleet"
	"github.com/sonyho2715/wealthpro-cloud/pkg/vercel"
)

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage tenant environment variables",
	}
	cmd.AddCommand(newEnvListCmd())
	cmd.AddCommand(newEnvGetCmd())
	cmd.AddCommand(newEnvSetCmd())
	cmd.AddCommand(newEnvDeleteCmd())
	cmd.AddCommand(newEnvSyncCmd())
	cmd.AddCommand(newEnvBatchUpdateCmd())
	return cmd
}

func newEnvListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "List environment variable names for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			vars, err := a.vercel.GetEnvironmentVariables(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTYPE\tTARGETS")
			for _, v := range vars {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Key, v.Type, strings.Join(v.Target, ","))
			}
			return tw.Flush()
		},
	}
}

func newEnvGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <project> <key>",
		Short: "Print one environment variable's value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			vars, err := a.vercel.GetEnvironmentVariables(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, v := range vars {
				if v.Key == args[1] {
					fmt.Fprintln(cmd.OutOrStdout(), v.Value)
					return nil
				}
			}
			return fmt.Errorf("variable %s not found", args[1])
		},
	}
}

func newEnvSetCmd() *cobra.Command {
	var sensitive bool

	cmd := &cobra.Command{
		Use:   "set <project> <key> <value>",
		Short: "Set one environment variable (replaces any existing value)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			varType := vercel.TypePlain
			if sensitive {
				varType = vercel.TypeEncrypted
			}
			err := a.fleet.SetVariable(cmd.Context(), args[0], vercel.EnvVar{
				Key:    args[1],
				Value:  args[2],
				Target: vercel.AllTargets(),
				Type:   varType,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s on %s.\n", args[1], args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&sensitive, "sensitive", false, "Store the value encrypted")
	return cmd
}

func newEnvDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project> <key>",
		Short: "Delete an environment variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			if err := a.fleet.DeleteVariable(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s.\n", args[1], args[0])
			return nil
		},
	}
}

func newEnvSyncCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "sync <project> <file>",
		Short: "Sync a key=value file to a project's environment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			tmpl, err := fleet.ParseTemplate(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			keys := tmpl.SortedKeys()
			fmt.Fprintf(out, "Will set %d variable(s) on %s:\n", len(keys), args[0])
			for _, k := range keys {
				fmt.Fprintf(out, "  %s\n", k)
			}
			for _, k := range tmpl.Skipped {
				fmt.Fprintf(out, "  %s (skipped: placeholder value)\n", k)
			}
			if len(keys) == 0 {
				fmt.Fprintln(out, "Nothing to sync.")
				return nil
			}

			if !yes {
				reader := bufio.NewReader(cmd.InOrStdin())
				ok, err := confirm(reader, out, "Apply?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			applied, err := a.fleet.Sync(cmd.Context(), args[0], tmpl)
			if err != nil {
				return fmt.Errorf("applied %d of %d variable(s): %w", applied, len(keys), err)
			}
			fmt.Fprintf(out, "Applied %d variable(s).\n", applied)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newEnvBatchUpdateCmd() *cobra.Command {
	var sensitive bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "batch-update <key> <value>",
		Short: "Set one environment variable across every tenant project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			out := cmd.OutOrStdout()
			if !yes {
				reader := bufio.NewReader(cmd.InOrStdin())
				ok, err := confirm(reader, out, fmt.Sprintf("Set %s on every tenant project?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			varType := vercel.TypePlain
			if sensitive {
				varType = vercel.TypeEncrypted
			}
			tally, err := a.fleet.BatchUpdate(cmd.Context(), vercel.EnvVar{
				Key:    args[0],
				Value:  args[1],
				Target: vercel.AllTargets(),
				Type:   varType,
			})
			if err != nil {
				return err
			}

			for _, outcome := range tally.Outcomes {
				if outcome.Err != nil {
					fmt.Fprintf(out, "  %s: FAILED: %v\n", outcome.Project, outcome.Err)
				} else {
					fmt.Fprintf(out, "  %s: ok\n", outcome.Project)
				}
			}
			fmt.Fprintf(out, "%d succeeded, %d failed\n", tally.Succeeded, tally.Failed)
			if tally.Failed > 0 {
				return fmt.Errorf("%d project(s) failed", tally.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sensitive, "sensitive", false, "Store the value encrypted")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
