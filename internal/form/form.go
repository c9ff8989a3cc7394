// Package form implements the add/edit form controller for ledger entries.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/money"
	"github.com/Veraticus/financas/internal/service"
	"github.com/google/uuid"
)

// Validation messages shown to the user.
const (
	MsgMesRef         = "MES REF inválido. Use YYYY-MM (ex.: 2026-02)."
	MsgDescricao      = "DESPESA (descrição) é obrigatória."
	MsgDataVencimento = "DATA VENC inválida."
	MsgDataPagamento  = "DATA PG inválida."
	MsgValor          = "Valor inválido (> 0)."
	MsgTipo           = "TIPO inválido."
	MsgPrioridade     = "PRIORIDADE inválida."
)

// Default values used by a fresh form.
const (
	DefaultFonte = "NUBANK"
	DefaultModo  = "PIX"
)

// ErrSaveInProgress is returned when Save is called while a previous save
// has not finished.
var ErrSaveInProgress = errors.New("save already in progress")

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// State is the controller's position in the edit cycle.
type State int

// Controller states.
const (
	StateEditing State = iota
	StateValidating
	StateRejected
	StateAccepted
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// Input holds the raw form values as typed by the user. ID and CreatedAt
// are set only when editing an existing entry.
type Input struct {
	ID             string
	CreatedAt      string
	MesRef         string
	Descricao      string
	DataVencimento string
	DataPagamento  string
	Valor          string
	Tipo           model.Tipo
	Prioridade     model.Prioridade
	Fonte          string
	Modo           string
	Observacoes    string
}

// IsEdit reports whether the input edits an existing entry.
func (in Input) IsEdit() bool {
	return in.ID != ""
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for timestamps.
func WithClock(clock service.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithIDGenerator sets the function that assigns ids to new entries.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// Controller validates form input and writes accepted entries through the
// gateway. It is safe for concurrent use; overlapping saves are refused.
type Controller struct {
	gateway service.Gateway
	clock   service.Clock
	newID   func() string
	message string
	mu      sync.Mutex
	state   State
	saving  bool
}

// NewController creates a form controller writing to gateway.
func NewController(gateway service.Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway: gateway,
		clock:   service.SystemClock,
		newID:   uuid.NewString,
		state:   StateEditing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Message returns the rejection message of the last failed save, if any.
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Reset returns the controller to editing and clears the last message.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEditing
	c.message = ""
}

// Save validates in and, when it passes, creates or updates the entry.
// A rejected input returns a *ValidationError and nothing is written.
func (c *Controller) Save(ctx context.Context, in Input) (*model.Lancamento, error) {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	c.saving = true
	c.state = StateValidating
	c.mu.Unlock()

	entry, err := c.save(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false

	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		c.state = StateRejected
		c.message = vErr.Message
	case err != nil:
		c.state = StateEditing
		c.message = err.Error()
	default:
		c.state = StateAccepted
		c.message = ""
	}
	return entry, err
}

func (c *Controller) save(ctx context.Context, in Input) (*model.Lancamento, error) {
	entry, err := Normalize(in)
	if err != nil {
		return nil, err
	}

	now := model.FormatTimestamp(c.clock.Now())
	entry.UpdatedAt = now

	if in.IsEdit() {
		if err := c.gateway.Update(ctx, entry.ID, model.FullPatch(*entry)); err != nil {
			return nil, fmt.Errorf("failed to update entry: %w", err)
		}
		return entry, nil
	}

	entry.ID = c.newID()
	entry.CreatedAt = now
	if err := c.gateway.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return entry, nil
}

// Validate checks in and returns the first failure as a *ValidationError.
func Validate(in Input) error {
	_, err := Normalize(in)
	return err
}

// Normalize validates in and returns the entry it describes: text fields
// trimmed, blank Fonte and Modo replaced by model.DefaultLabel, blank
// Observacoes and DataPagamento stored as null. ID and CreatedAt are copied
// from in; timestamps are left for the caller.
func Normalize(in Input) (*model.Lancamento, error) {
	mesRef := strings.TrimSpace(in.MesRef)
	if !model.ValidMesRef(mesRef) {
		return nil, &ValidationError{Field: "mesRef", Message: MsgMesRef}
	}

	descricao := strings.TrimSpace(in.Descricao)
	if descricao == "" {
		return nil, &ValidationError{Field: "descricao", Message: MsgDescricao}
	}

	vencimento := strings.TrimSpace(in.DataVencimento)
	if !model.ValidDate(vencimento) {
		return nil, &ValidationError{Field: "dataVencimento", Message: MsgDataVencimento}
	}

	var pagamento *string
	if p := strings.TrimSpace(in.DataPagamento); p != "" {
		if !model.ValidDate(p) {
			return nil, &ValidationError{Field: "dataPagamento", Message: MsgDataPagamento}
		}
		pagamento = &p
	}

	valor, err := money.ParseAmount(in.Valor)
	if err != nil || valor <= 0 {
		return nil, &ValidationError{Field: "valor", Message: MsgValor}
	}

	if !in.Tipo.IsValid() {
		return nil, &ValidationError{Field: "tipo", Message: MsgTipo}
	}
	if !in.Prioridade.IsValid() {
		return nil, &ValidationError{Field: "prioridade", Message: MsgPrioridade}
	}

	var observacoes *string
	if o := strings.TrimSpace(in.Observacoes); o != "" {
		observacoes = &o
	}

	return &model.Lancamento{
		ID:             in.ID,
		CreatedAt:      in.CreatedAt,
		MesRef:         mesRef,
		Descricao:      descricao,
		DataVencimento: vencimento,
		DataPagamento:  pagamento,
		Valor:          valor,
		Tipo:           in.Tipo,
		Prioridade:     in.Prioridade,
		Fonte:          orDefault(in.Fonte),
		Modo:           orDefault(in.Modo),
		Observacoes:    observacoes,
	}, nil
}

// Defaults returns the values a fresh form starts with.
func Defaults(now time.Time) Input {
	return Input{
		MesRef:         model.CurrentMonth(now),
		DataVencimento: model.Today(now),
		Tipo:           model.TipoRotina,
		Prioridade:     model.PrioridadeNecessidade,
		Fonte:          DefaultFonte,
		Modo:           DefaultModo,
	}
}

// FromEntry returns the form values for editing l.
func FromEntry(l model.Lancamento) Input {
	return Input{
		ID:             l.ID,
		CreatedAt:      l.CreatedAt,
		MesRef:         l.MesRef,
		Descricao:      l.Descricao,
		DataVencimento: l.DataVencimento,
		DataPagamento:  l.DataPagamentoText(),
		Valor:          strconv.FormatFloat(l.Valor, 'f', -1, 64),
		Tipo:           l.Tipo,
		Prioridade:     l.Prioridade,
		Fonte:          l.Fonte,
		Modo:           l.Modo,
		Observacoes:    l.ObservacoesText(),
	}
}

func orDefault(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.DefaultLabel
	}
	return s
}
