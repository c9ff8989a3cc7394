package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/financas/internal/cli"
	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/config"
	"github.com/Veraticus/financas/internal/filter"
	"github.com/Veraticus/financas/internal/form"
	"github.com/Veraticus/financas/internal/ledger"
	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/service"
	"github.com/Veraticus/financas/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath, storage.WithClock(clock))
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// session is an open ledger for the duration of one command.
type session struct {
	store  service.Storage
	ledger *ledger.Service
}

func openSession(ctx context.Context) (*session, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return &session{store: store, ledger: ledger.NewService(store, clock)}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

// userFacing turns the errors a user can act on into a UserError.
func userFacing(id string, err error) error {
	var vErr *form.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &vErr):
		return common.NewUserError(vErr.Message, err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError(fmt.Sprintf("Lançamento %s não encontrado.", id), err)
	case errors.Is(err, common.ErrDuplicateEntry):
		return common.NewUserError(fmt.Sprintf("Já existe um lançamento com o id %s.", id), err)
	}
	return err
}

// confirm asks prompt on the command's streams unless force is set.
func confirm(cmd *cobra.Command, force bool, prompt string) (bool, error) {
	if force {
		return true, nil
	}
	ok, err := cli.Confirm(cmd.Context(), cli.NewNonBlockingReader(cmd.InOrStdin()), cmd.OutOrStdout(), prompt)
	if err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	return ok, nil
}

// filterFlags are the list filters shared by every command that reads a
// filtered ledger.
type filterFlags struct {
	mes        string
	tipo       string
	prioridade string
	status     string
	busca      string
	atrasados  bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mes, "mes", "", "reference month (YYYY-MM)")
	cmd.Flags().StringVar(&f.tipo, "tipo", "", "tipo (ROTINA, TEMPORARIO, EXTRA)")
	cmd.Flags().StringVar(&f.prioridade, "prioridade", "", "prioridade (NECESSIDADE, DESEJO, SUPERFLUO, AS_3)")
	cmd.Flags().StringVar(&f.status, "status", "", "status (PAGO, ATRASADO, PENDENTE)")
	cmd.Flags().StringVar(&f.busca, "busca", "", "search description, fonte, modo and notes")
	cmd.Flags().BoolVar(&f.atrasados, "atrasados", false, "only overdue entries")
}

func (f *filterFlags) criteria() (filter.Criteria, error) {
	c := filter.Default()
	c.Search = f.busca
	c.OnlyOverdue = f.atrasados

	if f.mes != "" {
		if !model.ValidMesRef(f.mes) {
			return c, common.NewUserError(form.MsgMesRef, common.ErrInvalidInput)
		}
		c.MesRef = f.mes
	}
	if f.tipo != "" {
		t, err := model.ParseTipo(f.tipo)
		if err != nil {
			return c, common.NewUserError(form.MsgTipo, err)
		}
		c.Tipo = &t
	}
	if f.prioridade != "" {
		p, err := model.ParsePrioridade(f.prioridade)
		if err != nil {
			return c, common.NewUserError(form.MsgPrioridade, err)
		}
		c.Prioridade = &p
	}
	if f.status != "" {
		st, err := model.ParseStatus(f.status)
		if err != nil {
			return c, common.NewUserError("STATUS inválido.", err)
		}
		c.Status = &st
	}
	return c, nil
}

// entryFlags are the form fields of add and edit. Only flags the user set
// are applied, so edit keeps every other field.
type entryFlags struct {
	mes        string
	descricao  string
	vencimento string
	pagamento  string
	valor      string
	tipo       string
	prioridade string
	fonte      string
	modo       string
	obs        string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mes, "mes", "", "reference month (YYYY-MM)")
	cmd.Flags().StringVarP(&f.descricao, "descricao", "d", "", "description")
	cmd.Flags().StringVar(&f.vencimento, "vencimento", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.pagamento, "pagamento", "", "payment date (YYYY-MM-DD); empty clears it")
	cmd.Flags().StringVarP(&f.valor, "valor", "v", "", "amount, e.g. 1.234,56")
	cmd.Flags().StringVar(&f.tipo, "tipo", "", "tipo (ROTINA, TEMPORARIO, EXTRA)")
	cmd.Flags().StringVar(&f.prioridade, "prioridade", "", "prioridade (NECESSIDADE, DESEJO, SUPERFLUO, AS_3)")
	cmd.Flags().StringVar(&f.fonte, "fonte", "", "account or card")
	cmd.Flags().StringVar(&f.modo, "modo", "", "payment method")
	cmd.Flags().StringVar(&f.obs, "obs", "", "notes")
}

func (f *entryFlags) apply(cmd *cobra.Command, in *form.Input) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}

	set("mes", &in.MesRef, f.mes)
	set("descricao", &in.Descricao, f.descricao)
	set("vencimento", &in.DataVencimento, f.vencimento)
	set("pagamento", &in.DataPagamento, f.pagamento)
	set("valor", &in.Valor, f.valor)
	set("fonte", &in.Fonte, f.fonte)
	set("modo", &in.Modo, f.modo)
	set("obs", &in.Observacoes, f.obs)

	// Left unparsed so the form reports invalid values in its own order.
	if cmd.Flags().Changed("tipo") {
		in.Tipo = model.Tipo(strings.ToUpper(strings.TrimSpace(f.tipo)))
	}
	if cmd.Flags().Changed("prioridade") {
		in.Prioridade = model.Prioridade(strings.ToUpper(strings.TrimSpace(f.prioridade)))
	}
}

func writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		slog.Warn("failed to write output", "error", err)
	}
}

func writeln(w io.Writer, args ...any) {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		slog.Warn("failed to write output", "error", err)
	}
}
