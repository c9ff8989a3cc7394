package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 15, 9, 30, 0, 0, time.UTC)

type fakeGateway struct {
	createErr error
	block     chan struct{}
	created   []model.Lancamento
	updates   map[string]model.Patch
	mu        sync.Mutex
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{updates: map[string]model.Patch{}}
}

func (g *fakeGateway) Create(_ context.Context, entry *model.Lancamento) error {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return g.createErr
	}
	g.created = append(g.created, *entry)
	return nil
}

func (g *fakeGateway) Update(_ context.Context, id string, patch model.Patch) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates[id] = patch
	return nil
}

func (g *fakeGateway) writes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.created) + len(g.updates)
}

func newTestController(g service.Gateway) *Controller {
	return NewController(g,
		WithClock(service.ClockFunc(func() time.Time { return now })),
		WithIDGenerator(func() string { return "fixed-id" }),
	)
}

func validInput() Input {
	in := Defaults(now)
	in.Descricao = "Aluguel"
	in.Valor = "1.500,00"
	return in
}

func TestValidate_Order(t *testing.T) {
	tests := []struct {
		mutate func(*Input)
		name   string
		want   string
	}{
		{name: "month out of range", mutate: func(in *Input) { in.MesRef = "2026-13" }, want: MsgMesRef},
		{name: "blank description", mutate: func(in *Input) { in.Descricao = "   " }, want: MsgDescricao},
		{name: "bad due date", mutate: func(in *Input) { in.DataVencimento = "15/02/2026" }, want: MsgDataVencimento},
		{name: "bad payment date", mutate: func(in *Input) { in.DataPagamento = "ontem" }, want: MsgDataPagamento},
		{name: "amount not a number", mutate: func(in *Input) { in.Valor = "abc" }, want: MsgValor},
		{name: "amount zero", mutate: func(in *Input) { in.Valor = "0" }, want: MsgValor},
		{name: "amount negative", mutate: func(in *Input) { in.Valor = "-10,00" }, want: MsgValor},
		{name: "unknown tipo", mutate: func(in *Input) { in.Tipo = "MENSAL" }, want: MsgTipo},
		{name: "unknown prioridade", mutate: func(in *Input) { in.Prioridade = "" }, want: MsgPrioridade},
		{
			name: "only the first failure is reported",
			mutate: func(in *Input) {
				in.MesRef = "x"
				in.Descricao = ""
				in.Valor = "0"
			},
			want: MsgMesRef,
		},
		{
			name: "description checked before amount",
			mutate: func(in *Input) {
				in.Descricao = ""
				in.Valor = "0"
			},
			want: MsgDescricao,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := Validate(in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.want, vErr.Message)
		})
	}
}

func TestNormalize(t *testing.T) {
	in := validInput()
	in.MesRef = " 2026-02 "
	in.Descricao = "  Aluguel  "
	in.Fonte = "   "
	in.Modo = ""
	in.Observacoes = "   "
	in.DataPagamento = " "

	entry, err := Normalize(in)
	require.NoError(t, err)

	assert.Equal(t, "2026-02", entry.MesRef)
	assert.Equal(t, "Aluguel", entry.Descricao)
	assert.Equal(t, model.DefaultLabel, entry.Fonte)
	assert.Equal(t, model.DefaultLabel, entry.Modo)
	assert.Nil(t, entry.Observacoes)
	assert.Nil(t, entry.DataPagamento)
	assert.InDelta(t, 1500.0, entry.Valor, 1e-9)
}

func TestController_SaveCreate(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(g)

	entry, err := c.Save(context.Background(), validInput())
	require.NoError(t, err)

	require.Len(t, g.created, 1)
	assert.Equal(t, "fixed-id", entry.ID)
	assert.Equal(t, "2026-02-15T09:30:00.000Z", entry.CreatedAt)
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
	assert.Equal(t, *entry, g.created[0])
	assert.Equal(t, StateAccepted, c.State())
	assert.Empty(t, c.Message())
}

func TestController_SaveRejectedWritesNothing(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(g)

	in := validInput()
	in.Valor = "0"

	entry, err := c.Save(context.Background(), in)
	assert.Nil(t, entry)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, g.writes())
	assert.Equal(t, StateRejected, c.State())
	assert.Equal(t, MsgValor, c.Message())

	c.Reset()
	assert.Equal(t, StateEditing, c.State())
	assert.Empty(t, c.Message())
}

func TestController_SaveEdit(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(g)

	stored := model.Lancamento{
		ID:             "abc",
		MesRef:         "2026-01",
		Descricao:      "Internet",
		DataVencimento: "2026-01-20",
		DataPagamento:  model.StringPtr("2026-01-19"),
		Valor:          99.9,
		Tipo:           model.TipoRotina,
		Prioridade:     model.PrioridadeDesejo,
		Fonte:          "ITAU",
		Modo:           "DEBITO",
		Observacoes:    model.StringPtr("fibra"),
		CreatedAt:      "2026-01-01T00:00:00.000Z",
		UpdatedAt:      "2026-01-01T00:00:00.000Z",
	}

	in := FromEntry(stored)
	in.DataPagamento = ""
	in.Observacoes = ""
	in.Valor = "120,50"

	entry, err := c.Save(context.Background(), in)
	require.NoError(t, err)

	assert.Empty(t, g.created)
	patch, ok := g.updates["abc"]
	require.True(t, ok)
	assert.True(t, patch.ClearDataPagamento)
	assert.True(t, patch.ClearObservacoes)
	require.NotNil(t, patch.Valor)
	assert.InDelta(t, 120.5, *patch.Valor, 1e-9)

	assert.Equal(t, "abc", entry.ID)
	assert.Equal(t, stored.CreatedAt, entry.CreatedAt)
	assert.Equal(t, "2026-02-15T09:30:00.000Z", entry.UpdatedAt)

	// Applying the patch keeps id and creation time.
	updated := stored
	patch.Apply(&updated)
	assert.Equal(t, "abc", updated.ID)
	assert.Equal(t, stored.CreatedAt, updated.CreatedAt)
	assert.Nil(t, updated.DataPagamento)
}

func TestController_GatewayError(t *testing.T) {
	g := newFakeGateway()
	g.createErr = errors.New("disk full")
	c := newTestController(g)

	_, err := c.Save(context.Background(), validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, g.createErr)
	assert.Equal(t, StateEditing, c.State())
}

func TestController_SaveInProgress(t *testing.T) {
	g := newFakeGateway()
	g.block = make(chan struct{})
	c := newTestController(g)

	done := make(chan error, 1)
	go func() {
		_, err := c.Save(context.Background(), validInput())
		done <- err
	}()

	require.Eventually(t, func() bool { return c.State() == StateValidating }, time.Second, time.Millisecond)

	_, err := c.Save(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrSaveInProgress)

	close(g.block)
	require.NoError(t, <-done)
	assert.Len(t, g.created, 1)
}

func TestDefaults(t *testing.T) {
	in := Defaults(now)

	assert.Equal(t, "2026-02", in.MesRef)
	assert.Equal(t, "2026-02-15", in.DataVencimento)
	assert.Equal(t, model.TipoRotina, in.Tipo)
	assert.Equal(t, model.PrioridadeNecessidade, in.Prioridade)
	assert.Equal(t, "NUBANK", in.Fonte)
	assert.Equal(t, "PIX", in.Modo)
	assert.False(t, in.IsEdit())
}

func TestFromEntry_RoundTrips(t *testing.T) {
	stored := model.Lancamento{
		ID: "abc", MesRef: "2026-02", Descricao: "Luz", DataVencimento: "2026-02-10",
		Valor: 1234.56, Tipo: model.TipoExtra, Prioridade: model.PrioridadeAS3,
		Fonte: "NUBANK", Modo: "PIX", CreatedAt: "2026-02-01T00:00:00.000Z",
	}

	entry, err := Normalize(FromEntry(stored))
	require.NoError(t, err)
	assert.InDelta(t, stored.Valor, entry.Valor, 1e-9)
	assert.Equal(t, stored.ID, entry.ID)
	assert.Equal(t, stored.CreatedAt, entry.CreatedAt)
}
