package cli

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all provisioned tenant projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			projects, err := a.fleet.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No tenant projects found.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFRAMEWORK\tCREATED\tID")
			for _, p := range projects {
				created := time.UnixMilli(p.CreatedAt).UTC().Format("2006-01-02")
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Framework, created, p.ID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d project(s)\n", len(projects))
			return nil
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <project-name>",
		Short: "Show status details for one tenant project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			info, err := a.fleet.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := info.Project
			fmt.Fprintf(out, "Project:   %s (%s)\n", p.Name, p.ID)
			fmt.Fprintf(out, "Framework: %s\n", p.Framework)
			fmt.Fprintf(out, "Created:   %s\n", time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339))

			if d := info.LatestDeployment; d != nil {
				fmt.Fprintf(out, "\nLatest deployment:\n")
				fmt.Fprintf(out, "  State: %s\n", d.State)
				if d.URL != "" {
					fmt.Fprintf(out, "  URL:   https://%s\n", strings.TrimPrefix(d.URL, "https://"))
				}
				fmt.Fprintf(out, "  Built: %s\n", time.UnixMilli(d.CreatedAt).UTC().Format(time.RFC3339))
			} else {
				fmt.Fprintln(out, "\nNo deployments yet.")
			}

			fmt.Fprintf(out, "\nDomains (%d):\n", len(info.Domains))
			for _, d := range info.Domains {
				status := "unverified"
				if d.Verified {
					status = "verified"
				}
				fmt.Fprintf(out, "  %s (%s)\n", d.Name, status)
			}

			fmt.Fprintf(out, "\nEnvironment variables (%d):\n", len(info.VariableNames))
			for _, name := range info.VariableNames {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <project-name>",
		Short: "Delete a tenant hosting project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			name := args[0]
			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())

			if !force {
				fmt.Fprintf(out, "This deletes the hosting project %q and everything in it.\n", name)
				ok, err := confirm(reader, out, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}

				// Second confirmation requires retyping the exact name.
				typed, err := prompt(reader, out, "Type the project name to confirm", "")
				if err != nil {
					return err
				}
				if typed != name {
					fmt.Fprintln(out, "Name does not match, aborting.")
					return nil
				}
			}

			if err := a.fleet.Delete(cmd.Context(), name); err != nil {
				return err
			}

			fmt.Fprintf(out, "Deleted hosting project %s.\n", name)
			fmt.Fprintf(out, "The database project %s on the database platform was NOT deleted; remove it there if no longer needed.\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip both confirmation prompts")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check connectivity and credentials for both platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			report := a.fleet.Verify(cmd.Context())
			out := cmd.OutOrStdout()

			if report.HostingOK {
				fmt.Fprintf(out, "hosting:  OK (authenticated as %s)\n", report.HostingUser)
			} else {
				fmt.Fprintf(out, "hosting:  FAILED: %v\n", report.HostingErr)
			}
			if report.DatabaseOK {
				fmt.Fprintf(out, "database: OK (authenticated as %s)\n", report.DatabaseAccount)
			} else {
				fmt.Fprintf(out, "database: FAILED: %v\n", report.DatabaseErr)
			}

			if !report.HostingOK || !report.DatabaseOK {
				return fmt.Errorf("platform verification failed")
			}
			return nil
		},
	}
}
