package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janhq/health-assistant/internal/app"
	"github.com/janhq/health-assistant/internal/domain/tool"
)

var logSetCmd = &cobra.Command{
	Use:   "log-set [date] [exercise] [weight] [reps] [set]",
	Short: "Log one strength-training set",
	Long:  `Record a set directly, with the same validation the assistant applies. Date is YYYY-MM-DD and weight is in kg.`,
	Args:  cobra.ExactArgs(5),
	RunE:  runLogSet,
}

func runLogSet(cmd *cobra.Command, args []string) error {
	return withContainer(cmd, false, func(ctx context.Context, c *app.Container) error {
		res, err := c.Dispatcher.Execute(ctx, tool.Call{Name: tool.KindLogGymSet.String(), Args: args})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Output)
		if res.Failed {
			return fmt.Errorf("set not logged")
		}
		return nil
	})
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools offered to the model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry := tool.NewRegistry()
		if err := tool.NewHealthTools(nil, 0, nil).Register(registry); err != nil {
			return err
		}
		for _, line := range registry.DescribeAll() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}
