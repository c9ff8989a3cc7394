// Package model defines the core domain models used throughout the application.
package model

import (
	"time"
)

// DefaultLabel is stored in place of a blank Fonte or Modo.
const DefaultLabel = "N/A"

// DateLayout is the calendar date format used by due and payment dates.
const DateLayout = "2006-01-02"

// MonthLayout is the year-month format used by MesRef.
const MonthLayout = "2006-01"

// TimestampLayout is the format of CreatedAt and UpdatedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Lancamento is a single ledger entry: one bill or expense the user tracks.
type Lancamento struct {
	DataPagamento  *string    `json:"dataPagamento"`
	Observacoes    *string    `json:"observacoes"`
	ID             string     `json:"id" validate:"required"`
	MesRef         string     `json:"mesRef" validate:"required,mesref"`
	Descricao      string     `json:"descricao" validate:"required"`
	DataVencimento string     `json:"dataVencimento" validate:"required,isodate"`
	Tipo           Tipo       `json:"tipo" validate:"required,oneof=ROTINA TEMPORARIO EXTRA"`
	Prioridade     Prioridade `json:"prioridade" validate:"required,oneof=NECESSIDADE DESEJO SUPERFLUO AS_3"`
	Fonte          string     `json:"fonte"`
	Modo           string     `json:"modo"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
	Valor          float64    `json:"valor" validate:"gt=0"`
}

// IsPaid reports whether a payment date is recorded.
func (l *Lancamento) IsPaid() bool {
	return l.DataPagamento != nil && *l.DataPagamento != ""
}

// ObservacoesText returns the notes, or "" when absent.
func (l *Lancamento) ObservacoesText() string {
	if l.Observacoes == nil {
		return ""
	}
	return *l.Observacoes
}

// DataPagamentoText returns the payment date, or "" when unpaid.
func (l *Lancamento) DataPagamentoText() string {
	if l.DataPagamento == nil {
		return ""
	}
	return *l.DataPagamento
}

// Patch describes a partial update. Nil fields are left untouched; the Clear
// flags set the matching optional field to null.
type Patch struct {
	MesRef             *string
	Descricao          *string
	DataVencimento     *string
	DataPagamento      *string
	Valor              *float64
	Tipo               *Tipo
	Prioridade         *Prioridade
	Fonte              *string
	Modo               *string
	Observacoes        *string
	UpdatedAt          *string
	ClearDataPagamento bool
	ClearObservacoes   bool
}

// Apply copies the patch onto l. CreatedAt and ID are never touched.
func (p Patch) Apply(l *Lancamento) {
	if p.MesRef != nil {
		l.MesRef = *p.MesRef
	}
	if p.Descricao != nil {
		l.Descricao = *p.Descricao
	}
	if p.DataVencimento != nil {
		l.DataVencimento = *p.DataVencimento
	}
	if p.ClearDataPagamento {
		l.DataPagamento = nil
	} else if p.DataPagamento != nil {
		v := *p.DataPagamento
		l.DataPagamento = &v
	}
	if p.Valor != nil {
		l.Valor = *p.Valor
	}
	if p.Tipo != nil {
		l.Tipo = *p.Tipo
	}
	if p.Prioridade != nil {
		l.Prioridade = *p.Prioridade
	}
	if p.Fonte != nil {
		l.Fonte = *p.Fonte
	}
	if p.Modo != nil {
		l.Modo = *p.Modo
	}
	if p.ClearObservacoes {
		l.Observacoes = nil
	} else if p.Observacoes != nil {
		v := *p.Observacoes
		l.Observacoes = &v
	}
	if p.UpdatedAt != nil {
		l.UpdatedAt = *p.UpdatedAt
	}
}

// FullPatch returns a patch that replaces every mutable field of l.
func FullPatch(l Lancamento) Patch {
	p := Patch{
		MesRef:             &l.MesRef,
		Descricao:          &l.Descricao,
		DataVencimento:     &l.DataVencimento,
		Valor:              &l.Valor,
		Tipo:               &l.Tipo,
		Prioridade:         &l.Prioridade,
		Fonte:              &l.Fonte,
		Modo:               &l.Modo,
		UpdatedAt:          &l.UpdatedAt,
		DataPagamento:      l.DataPagamento,
		Observacoes:        l.Observacoes,
		ClearDataPagamento: l.DataPagamento == nil,
		ClearObservacoes:   l.Observacoes == nil,
	}
	return p
}

// FormatTimestamp renders t the way CreatedAt and UpdatedAt are stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
