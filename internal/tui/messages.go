package tui

import "github.com/Veraticus/financas/internal/model"

type entriesLoadedMsg struct {
	err     error
	entries []model.Lancamento
}

// actionDoneMsg reports the outcome of a quick action on one entry.
type actionDoneMsg struct {
	err     error
	message string
}
