package main

import (
	"github.com/Veraticus/financas/internal/tui"
	"github.com/Veraticus/financas/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func browseCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse entries interactively",
		Long: `Open the interactive browser.

Keys: p pay, u unpay, d delete (y to confirm), / search, o only overdue,
r refresh, ? help, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			return tui.Run(ctx, s.ledger,
				tui.WithCriteria(criteria),
				tui.WithTheme(themes.ByName(viper.GetString("ui.theme"))),
			)
		},
	}

	flags.register(cmd)
	return cmd
}
