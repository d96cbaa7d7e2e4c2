package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/okian/playerdex/internal/cli"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newReplCmd(), newPlayerCmd(), newUserCmd(), newTopCmd(), newTagsCmd())
}

// loadShell loads the catalog and returns a shell over it.
func loadShell(cmd *cobra.Command, opts ...cli.Option) (*cli.Shell, error) {
	svc := newService(cfg)
	if err := svc.Start(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	opts = append([]cli.Option{
		cli.WithOutput(cmd.OutOrStdout()),
		cli.WithMessages(cmd.ErrOrStderr()),
		cli.WithJSON(jsonOut),
	}, opts...)
	return cli.New(svc, opts...), nil
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Load the catalog and answer queries interactively",
		Long: `The repl command loads the catalog and reads one query per line:

  player <prefix>        players whose full name starts with prefix
  user <id>              ratings submitted by a user
  top <N> <position>     N best rated players of a position
  tags <tag> [<tag>...]  players carrying every tag

Type sair, exit or quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh, err := loadShell(cmd,
				cli.WithInput(os.Stdin),
				cli.WithMessages(cmd.OutOrStdout()),
			)
			if err != nil {
				return err
			}
			return sh.Run(cmd.Context())
		},
	}
}

func newPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <prefix>",
		Short: "List players whose full name starts with prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := loadShell(cmd)
			if err != nil {
				return err
			}
			return sh.Player(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "List the ratings submitted by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := loadShell(cmd)
			if err != nil {
				return err
			}
			return sh.User(cmd.Context(), args[0])
		},
	}
}

func newTopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top <N> <position>",
		Short: "List the N best rated players of a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: N must be an integer, got %q", cli.ErrUsage, args[0])
			}
			sh, err := loadShell(cmd)
			if err != nil {
				return err
			}
			return sh.Top(cmd.Context(), k, args[1])
		},
	}
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <tag> [<tag>...]",
		Short: "List players carrying every tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := loadShell(cmd)
			if err != nil {
				return err
			}
			return sh.Tags(cmd.Context(), args)
		},
	}
}
