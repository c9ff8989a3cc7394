package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/financas/internal/cli"
	"github.com/Veraticus/financas/internal/form"
	"github.com/Veraticus/financas/internal/ledger"
	"github.com/Veraticus/financas/internal/money"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry",
		Long: `Add a ledger entry. Fields not given start from the form defaults:
current month, due today, ROTINA, NECESSIDADE, NUBANK, PIX.

Examples:
  financas add -d "Aluguel" -v 1.500,00 --vencimento 2026-02-10
  financas add -d "Curso" -v 300 --tipo TEMPORARIO --prioridade DESEJO --fonte ITAU --modo BOLETO`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			in := form.Defaults(clock.Now())
			flags.apply(cmd, &in)

			entry, err := form.NewController(s.store, form.WithClock(clock)).Save(ctx, in)
			if err != nil {
				return userFacing("", err)
			}

			slog.Info("Created entry", "id", entry.ID)
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Lançamento %q criado (%s, vence %s).",
				entry.Descricao, money.FormatBRL(entry.Valor), entry.DataVencimento)))
			writeln(cmd.OutOrStdout(), cli.SubtleStyle.Render("id: "+entry.ID))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func editCmd() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry",
		Long: `Edit a ledger entry. Only the flags given change; every other field keeps
its stored value. Use --pagamento "" to clear the payment date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			current, err := s.ledger.Get(ctx, id)
			if err != nil {
				return userFacing(id, err)
			}

			in := form.FromEntry(*current)
			flags.apply(cmd, &in)

			entry, err := form.NewController(s.store, form.WithClock(clock)).Save(ctx, in)
			if err != nil {
				return userFacing(id, err)
			}

			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Lançamento %q atualizado.", entry.Descricao)))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark an entry as paid today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ledger.MarkPaid(ctx, id); err != nil {
				return userFacing(id, err)
			}

			entry, err := s.ledger.Get(ctx, id)
			if err != nil {
				return userFacing(id, err)
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%q pago em %s.", entry.Descricao, entry.DataPagamentoText())))
			return nil
		},
	}
}

func unpayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpay <id>",
		Short: "Clear the payment date of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ledger.Unpay(ctx, id); err != nil {
				return userFacing(id, err)
			}

			entry, err := s.ledger.Get(ctx, id)
			if err != nil {
				return userFacing(id, err)
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Pagamento de %q desfeito.", entry.Descricao)))
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			entry, err := s.ledger.Get(ctx, id)
			if err != nil {
				return userFacing(id, err)
			}

			ok, err := confirm(cmd, force, ledger.ConfirmDeletePrompt(*entry))
			if err != nil {
				return err
			}
			if !ok {
				writeln(cmd.OutOrStdout(), cli.FormatInfo("Exclusão cancelada."))
				return nil
			}

			if err := s.ledger.Delete(ctx, id); err != nil {
				return userFacing(id, err)
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%q excluído.", entry.Descricao)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
