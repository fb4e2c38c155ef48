package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sonyho2715/wealthpro-cloud/internal/domain/tenant"
)

func newProvisionCmd() *cobra.Command {
	var yes bool
	id := tenant.Identity{}

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision a complete tenant instance (database + hosting)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			interactive := id.Email == ""
			if interactive {
				collected, err := collectIdentity(a, cmd, reader)
				if err != nil {
					return err
				}
				id = *collected
			}

			if err := id.Validate(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "About to provision:")
			fmt.Fprintf(out, "  Agent:        %s <%s>\n", id.FullName(), id.Email)
			fmt.Fprintf(out, "  Brand:        %s (%s)\n", id.BrandName, id.BrandColor)
			fmt.Fprintf(out, "  Project name: %s\n", id.ProjectName())
			if domain := id.CustomDomain(a.cfg.AppRootDomain); domain != "" {
				fmt.Fprintf(out, "  Domain:       %s\n", domain)
			}
			fmt.Fprintf(out, "  Template:     %s\n", a.cfg.TemplateRepository)
			fmt.Fprintln(out)

			if !yes {
				ok, err := confirm(reader, out, "Proceed?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			uc := a.provisioner()
			uc.SetOutput(out)
			result := uc.Execute(cmd.Context(), id)

			fmt.Fprintln(out)
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "WARNING: %s\n", warning)
			}
			if !result.Success {
				if result.Database != nil && result.Database.ProjectID != "" {
					fmt.Fprintf(out, "Created database project %s was NOT removed; clean up manually if needed.\n", result.Database.ProjectID)
				}
				if result.Hosting != nil {
					fmt.Fprintf(out, "Created hosting project %s was NOT removed; clean up manually if needed.\n", result.Hosting.ID)
				}
				return fmt.Errorf("provisioning failed at step %q: %s", result.FailureStep, result.ErrorMessage())
			}

			fmt.Fprintln(out, "Provisioning complete.")
			if result.DeploymentURL != "" {
				fmt.Fprintf(out, "  Deployment: %s\n", result.DeploymentURL)
			}
			if result.CustomDomainURL != "" {
				fmt.Fprintf(out, "  Domain:     %s\n", result.CustomDomainURL)
			}
			if result.DeploymentPending {
				fmt.Fprintln(out, "  Note: the first deployment is still in progress; check the hosting dashboard.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&id.Email, "email", "", "Agent email (skips interactive prompts when set)")
	cmd.Flags().StringVar(&id.FirstName, "first-name", "", "Agent first name")
	cmd.Flags().StringVar(&id.LastName, "last-name", "", "Agent last name")
	cmd.Flags().StringVar(&id.SubdomainSlug, "slug", "", "Subdomain slug")
	cmd.Flags().StringVar(&id.BrandName, "brand-name", "", "Brand display name")
	cmd.Flags().StringVar(&id.BrandColor, "brand-color", "#1a365d", "Brand primary color")
	cmd.Flags().StringVar(&id.Phone, "phone", "", "Agent phone (optional)")

	return cmd
}

func collectIdentity(a *app, cmd *cobra.Command, reader *bufio.Reader) (*tenant.Identity, error) {
	out := cmd.OutOrStdout()
	id := &tenant.Identity{}

	email, err := prompt(reader, out, "Agent email", "")
	if err != nil {
		return nil, err
	}
	id.Email = email

	// Prefill the remaining prompts from the advisor application's own
	// contact record when one exists.
	if a.store.Enabled() {
		contact, err := a.store.FindByEmail(cmd.Context(), email)
		if err != nil {
			fmt.Fprintf(out, "note: contact lookup failed, continuing without prefill: %v\n", err)
		} else if contact != nil {
			id.FirstName = contact.FirstName
			id.LastName = contact.LastName
			id.Phone = contact.Phone
			id.BrandName = contact.BrandName
		}
	}

	if id.FirstName, err = prompt(reader, out, "First name", id.FirstName); err != nil {
		return nil, err
	}
	if id.LastName, err = prompt(reader, out, "Last name", id.LastName); err != nil {
		return nil, err
	}
	defSlug := tenant.Slugify(id.FirstName + "-" + id.LastName)
	if id.SubdomainSlug, err = prompt(reader, out, "Subdomain slug", defSlug); err != nil {
		return nil, err
	}
	if id.BrandName, err = prompt(reader, out, "Brand name", id.BrandName); err != nil {
		return nil, err
	}
	if id.BrandColor, err = prompt(reader, out, "Brand color", "#1a365d"); err != nil {
		return nil, err
	}
	if id.Phone, err = prompt(reader, out, "Phone (optional)", id.Phone); err != nil {
		return nil, err
	}

	return id, nil
}
