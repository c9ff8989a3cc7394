package testutil

import (
	"github.com/Veraticus/financas/internal/model"
)

// DefaultTimestamp is stamped on built entries unless overridden.
const DefaultTimestamp = "2026-02-01T10:00:00.000Z"

// EntryBuilder builds valid ledger entries for tests. Every entry starts as
// an unpaid ROTINA/NECESSIDADE bill of 100 due on 2026-02-10.
type EntryBuilder struct {
	entry model.Lancamento
}

// NewEntry starts a builder for an entry with the given id.
func NewEntry(id string) *EntryBuilder {
	return &EntryBuilder{entry: model.Lancamento{
		ID:             id,
		MesRef:         "2026-02",
		Descricao:      "Conta " + id,
		DataVencimento: "2026-02-10",
		Valor:          100,
		Tipo:           model.TipoRotina,
		Prioridade:     model.PrioridadeNecessidade,
		Fonte:          "NUBANK",
		Modo:           "PIX",
		CreatedAt:      DefaultTimestamp,
		UpdatedAt:      DefaultTimestamp,
	}}
}

// Described sets the description.
func (b *EntryBuilder) Described(descricao string) *EntryBuilder {
	b.entry.Descricao = descricao
	return b
}

// DueOn sets the due date and derives the reference month from it.
func (b *EntryBuilder) DueOn(date string) *EntryBuilder {
	b.entry.DataVencimento = date
	if len(date) >= 7 {
		b.entry.MesRef = date[:7]
	}
	return b
}

// InMonth overrides the reference month.
func (b *EntryBuilder) InMonth(mesRef string) *EntryBuilder {
	b.entry.MesRef = mesRef
	return b
}

// PaidOn records a payment date.
func (b *EntryBuilder) PaidOn(date string) *EntryBuilder {
	b.entry.DataPagamento = model.StringPtr(date)
	return b
}

// Amount sets the value.
func (b *EntryBuilder) Amount(v float64) *EntryBuilder {
	b.entry.Valor = v
	return b
}

// OfTipo sets the tipo.
func (b *EntryBuilder) OfTipo(t model.Tipo) *EntryBuilder {
	b.entry.Tipo = t
	return b
}

// WithPrioridade sets the prioridade.
func (b *EntryBuilder) WithPrioridade(p model.Prioridade) *EntryBuilder {
	b.entry.Prioridade = p
	return b
}

// From sets fonte and modo.
func (b *EntryBuilder) From(fonte, modo string) *EntryBuilder {
	b.entry.Fonte = fonte
	b.entry.Modo = modo
	return b
}

// Noted sets the notes.
func (b *EntryBuilder) Noted(obs string) *EntryBuilder {
	b.entry.Observacoes = model.StringPtr(obs)
	return b
}

// CreatedAt sets both timestamps.
func (b *EntryBuilder) CreatedAt(ts string) *EntryBuilder {
	b.entry.CreatedAt = ts
	b.entry.UpdatedAt = ts
	return b
}

// Build returns a copy of the entry.
func (b *EntryBuilder) Build() model.Lancamento {
	e := b.entry
	if e.DataPagamento != nil {
		e.DataPagamento = model.StringPtr(*e.DataPagamento)
	}
	if e.Observacoes != nil {
		e.Observacoes = model.StringPtr(*e.Observacoes)
	}
	return e
}
