package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// globalOptions are the connection and logging flags shared by every command.
type globalOptions struct {
	hostname string
	username string
	password string
	port     int
	secure   bool
	debug    bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "ucsctl",
		Short: "Reconcile Cisco UCS Manager objects from desired-state descriptors",
		Long: `ucsctl converges IP pools, LAN/SAN connectivity policies, VSAN port
assignments and service profile templates on Cisco UCS Manager.

Each playbook entry names a resource type, the organization (or fabric) it
lives in, its name and the target state. Objects are created when missing and
removed when absent; existing objects are never modified.

Connection settings default to the UCSM_IP, UCSM_USER, UCSM_PASSWORD,
UCSM_PORT and UCSM_SECURE environment variables; flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.debug {
				config = zap.NewDevelopmentConfig()
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.hostname, "hostname", "", "UCS Manager hostname or IP address (env UCSM_IP)")
	flags.StringVar(&opts.username, "username", "", "UCS Manager username (env UCSM_USER)")
	flags.StringVar(&opts.password, "password", "", "UCS Manager password (env UCSM_PASSWORD)")
	flags.IntVar(&opts.port, "port", 0, "XML API port (env UCSM_PORT)")
	flags.BoolVar(&opts.secure, "secure", true, "use HTTPS (env UCSM_SECURE)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newApplyCmd(opts), newDNCmd())

	return rootCmd
}
