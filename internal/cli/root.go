package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sonyho2715/wealthpro-cloud/internal/config"
	"github.com/sonyho2715/wealthpro-cloud/internal/fleet"
	"github.com/sonyho2715/wealthpro-cloud/internal/tenantstore"
	"github.com/sonyho2715/wealthpro-cloud/internal/usecase/provision"
	"github.com/sonyho2715/wealthpro-cloud/pkg/log"
	"github.com/sonyho2715/wealthpro-cloud/pkg/railway"
	"github.com/sonyho2715/wealthpro-cloud/pkg/vercel"
)

var rootCmd = &cobra.Command{
	Use:   "wealthproctl",
	Short: "WealthPro tenant provisioning and fleet management CLI",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newProvisionCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newEnvCmd())
}

// app bundles the wired services every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	railway *railway.Client
	vercel  *vercel.Client
	fleet   *fleet.Service
	store   *tenantstore.Store
}

func newApp() *app {
	cfg := config.Load()
	logger := log.Must(cfg.Environment)

	rw := railway.NewFromEnv()
	vc := vercel.NewFromEnv()

	return &app{
		cfg:     cfg,
		logger:  logger,
		railway: rw,
		vercel:  vc,
		fleet:   fleet.New(vc, rw, cfg.FleetListLimit, logger),
		store:   tenantstore.New(cfg.AppDatabaseURL),
	}
}

func (a *app) provisioner() *provision.UseCase {
	rwCfg := railway.LoadFromEnv()
	opts := provision.Options{
		DatabaseDeployTimeout: rwCfg.DeployTimeout,
		DatabasePollInterval:  rwCfg.DeployPollInterval,
		VariableRetries:       rwCfg.VariableRetries,
		VariableRetryDelay:    rwCfg.VariableRetryDelay,
		DeployTimeout:         a.cfg.DeployTimeout,
		DeployPollInterval:    a.cfg.DeployPollInterval,
	}
	return provision.New(a.railway, a.vercel, a.cfg, opts, a.logger)
}

func (a *app) close() {
	_ = a.logger.Sync()
}
