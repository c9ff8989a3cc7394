package storage

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/Veraticus/financas/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{name: "valid string", str: "test", paramName: "param"},
		{name: "empty string", str: "", paramName: "param", wantErr: true},
		{name: "whitespace only", str: "   ", paramName: "param", wantErr: true},
		{name: "string with spaces", str: "  test  ", paramName: "param"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		mutate    func(*model.Lancamento)
		name      string
		errSubstr string
		wantErr   bool
	}{
		{name: "valid", mutate: func(*model.Lancamento) {}},
		{name: "paid entry", mutate: func(l *model.Lancamento) { l.DataPagamento = model.StringPtr("2026-01-01") }},
		{name: "empty payment date is unpaid", mutate: func(l *model.Lancamento) { l.DataPagamento = model.StringPtr("") }},
		{name: "blank descricao", mutate: func(l *model.Lancamento) { l.Descricao = "" }, wantErr: true, errSubstr: "descricao"},
		{name: "month out of range", mutate: func(l *model.Lancamento) { l.MesRef = "2026-00" }, wantErr: true, errSubstr: "mesRef"},
		{name: "negative amount", mutate: func(l *model.Lancamento) { l.Valor = -1 }, wantErr: true, errSubstr: "valor"},
		{name: "infinite amount", mutate: func(l *model.Lancamento) { l.Valor = math.Inf(1) }, wantErr: true, errSubstr: "valor"},
		{name: "lowercase tipo", mutate: func(l *model.Lancamento) { l.Tipo = "rotina" }, wantErr: true, errSubstr: "tipo"},
		{name: "payment date shape", mutate: func(l *model.Lancamento) { l.DataPagamento = model.StringPtr("2026/01/01") }, wantErr: true, errSubstr: "dataPagamento"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := testEntry("a", "2026-02-10")
			tt.mutate(entry)

			err := validateEntry(entry)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidEntry)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateEntry_Nil(t *testing.T) {
	assert.ErrorIs(t, validateEntry(nil), ErrNilParameter)
}
