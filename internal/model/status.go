package model

import "time"

// ComputeStatus derives the payment status of l as of now.
//
// A recorded payment date always wins. Otherwise the entry is overdue only
// when its due date is strictly before now's calendar date, so an entry due
// today is still pending.
func ComputeStatus(l Lancamento, now time.Time) Status {
	if l.IsPaid() {
		return StatusPago
	}
	if l.DataVencimento < Today(now) {
		return StatusAtrasado
	}
	return StatusPendente
}

// Today returns now's calendar date in DateLayout, in now's own location.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// CurrentMonth returns now's year-month in MonthLayout.
func CurrentMonth(now time.Time) string {
	return now.Format(MonthLayout)
}
