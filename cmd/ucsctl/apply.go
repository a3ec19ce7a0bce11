package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply -f PLAYBOOK",
		Short: "Reconcile every entry of a playbook, in order",
		Long: `Reconciles every entry of a YAML or TOML playbook against one UCS Manager,
in order, printing changed=<bool> for each. The whole playbook is validated
before anything is applied; the first failing entry stops the run.

Example playbook:

  - resource_type: ip_pool
    scope_name: root
    logical_name: DC03
    target_state: present
    properties:
      descr: datacenter 03 ip pool
    children:
      - starting_address: 10.10.0.1
        number_of_ip: 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.connectionConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runApply(cmd.Context(), opts.logger, config, file, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "playbook file (.yaml, .yml or .toml)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// runApply owns the session registry for the duration of the run and logs out
// of every session before returning.
func runApply(ctx context.Context, logger *zap.Logger, config *ucs.ConnectionConfig, file string, out io.Writer) (err error) {
	playbook, err := LoadPlaybook(file)
	if err != nil {
		return err
	}
	tasks, err := playbook.tasks()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		logger.Warn("Playbook has no entries", zap.String("file", file))
		return nil
	}

	registry := ucs.NewSessionRegistry()
	defer func() {
		if closeErr := registry.Close(context.WithoutCancel(ctx)); closeErr != nil {
			logger.Warn("Logout failed", zap.Error(closeErr))
		}
	}()

	start := time.Now()
	session, err := registry.Acquire(ctx, config)
	if err != nil {
		return err
	}
	logger.Info("Connected to UCS Manager",
		zap.String("endpoint", session.Endpoint()),
		zap.Duration("duration", time.Since(start)),
	)

	reconciler := ucs.NewReconciler(session)
	changed := 0
	for _, t := range tasks {
		logger.Debug("Reconciling",
			zap.Int("task", t.index),
			zap.String("kind", t.resource.Kind()),
			zap.String("scope", t.desc.ScopeName),
			zap.String("name", t.desc.LogicalName),
			zap.String("state", string(t.state)),
		)

		result, err := reconciler.Apply(ctx, t.resource, t.state)
		if err != nil {
			return fmt.Errorf("task %d (%s): %w", t.index, t, err)
		}
		if result.Changed {
			changed++
		}

		fmt.Fprintf(out, "%s %s changed=%t\n", t, t.state, result.Changed)
		logger.Info("Reconciled",
			zap.Int("task", t.index),
			zap.String("dn", result.DN.String()),
			zap.Bool("changed", result.Changed),
			zap.Bool("found", result.Found),
		)
	}

	logger.Info("Playbook applied",
		zap.Int("tasks", len(tasks)),
		zap.Int("changed", changed),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
