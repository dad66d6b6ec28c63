package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janhq/health-assistant/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question",
	Long:  `Run one query through the decision, tool and synthesis stages and print the reply.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	return withContainer(cmd, false, func(ctx context.Context, c *app.Container) error {
		ex, err := c.Chat.Ask(ctx, query)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ex.Reply.Content)
		return nil
	})
}
