package model

import (
	"fmt"
	"strings"
)

// Tipo classifies how often an entry recurs.
type Tipo string

// Tipo constants.
const (
	TipoRotina     Tipo = "ROTINA"
	TipoTemporario Tipo = "TEMPORARIO"
	TipoExtra      Tipo = "EXTRA"
)

// Prioridade ranks how essential an entry is.
type Prioridade string

// Prioridade constants.
const (
	PrioridadeNecessidade Prioridade = "NECESSIDADE"
	PrioridadeDesejo      Prioridade = "DESEJO"
	PrioridadeSuperfluo   Prioridade = "SUPERFLUO"
	PrioridadeAS3         Prioridade = "AS_3"
)

// Status is the derived payment state of an entry. It is never stored.
type Status string

// Status constants.
const (
	StatusPendente Status = "PENDENTE"
	StatusPago     Status = "PAGO"
	StatusAtrasado Status = "ATRASADO"
)

// Tipos lists every Tipo in display order.
func Tipos() []Tipo {
	return []Tipo{TipoRotina, TipoTemporario, TipoExtra}
}

// Prioridades lists every Prioridade in display order.
func Prioridades() []Prioridade {
	return []Prioridade{PrioridadeNecessidade, PrioridadeDesejo, PrioridadeSuperfluo, PrioridadeAS3}
}

// Statuses lists every Status in display order.
func Statuses() []Status {
	return []Status{StatusPendente, StatusPago, StatusAtrasado}
}

// IsValid reports whether t is a member of the closed set.
func (t Tipo) IsValid() bool {
	switch t {
	case TipoRotina, TipoTemporario, TipoExtra:
		return true
	default:
		return false
	}
}

// IsValid reports whether p is a member of the closed set.
func (p Prioridade) IsValid() bool {
	switch p {
	case PrioridadeNecessidade, PrioridadeDesejo, PrioridadeSuperfluo, PrioridadeAS3:
		return true
	default:
		return false
	}
}

// IsValid reports whether s is a member of the closed set.
func (s Status) IsValid() bool {
	switch s {
	case StatusPendente, StatusPago, StatusAtrasado:
		return true
	default:
		return false
	}
}

// ParseTipo accepts a Tipo name in any case.
func ParseTipo(s string) (Tipo, error) {
	t := Tipo(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid tipo %q: must be one of %v", s, Tipos())
	}
	return t, nil
}

// ParsePrioridade accepts a Prioridade name in any case.
func ParsePrioridade(s string) (Prioridade, error) {
	p := Prioridade(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid prioridade %q: must be one of %v", s, Prioridades())
	}
	return p, nil
}

// ParseStatus accepts a Status name in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid status %q: must be one of %v", s, Statuses())
	}
	return st, nil
}
