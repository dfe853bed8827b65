// Package calculator is the settlement engine: it folds direct and additional
// expenses into per-participant paid/owed/balance figures and derives a
// settlement plan. Everything in this package is pure and safe for
// concurrent use.
package calculator

import (
	"github.com/mmynk/splitbill/internal/models"
)

// DiagnosticKind classifies a reference the calculator had to skip.
type DiagnosticKind string

const (
	// DiagUnknownSharer: a sharer ID is not in the participant list.
	DiagUnknownSharer DiagnosticKind = "unknown_sharer"
	// DiagUnknownPayer: the payer ID is not in the participant list.
	DiagUnknownPayer DiagnosticKind = "unknown_payer"
	// DiagNoValidSharers: no sharer survived filtering, the expense was dropped.
	DiagNoValidSharers DiagnosticKind = "no_valid_sharers"
)

// Diagnostic describes one silently skipped reference.
type Diagnostic struct {
	Kind          DiagnosticKind `json:"kind"`
	ExpenseID     string         `json:"expenseId"`
	Additional    bool           `json:"additional"`
	ParticipantID string         `json:"participantId,omitempty"`
}

// Option configures a calculation.
type Option func(*options)

type options struct {
	diagnostics func(Diagnostic)
}

// WithDiagnostics registers a callback that receives every skipped reference.
// It does not change the computed summary.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(o *options) {
		o.diagnostics = fn
	}
}

func (o *options) report(d Diagnostic) {
	if o.diagnostics != nil {
		o.diagnostics(d)
	}
}

// ledger is the working state of one calculation.
type ledger struct {
	order   []string
	entries map[string]*entry
	opts    *options
}

type entry struct {
	paid      float64
	owedCents int64
	items     []models.OwedItem
}

func newLedger(participants []models.Participant, opts *options) *ledger {
	l := &ledger{
		order:   make([]string, 0, len(participants)),
		entries: make(map[string]*entry, len(participants)),
		opts:    opts,
	}
	for _, p := range participants {
		if _, exists := l.entries[p.ID]; exists {
			continue
		}
		l.order = append(l.order, p.ID)
		l.entries[p.ID] = &entry{items: []models.OwedItem{}}
	}
	return l
}

// sharers filters ids down to known participants, preserving order.
func (l *ledger) sharers(expenseID string, additional bool, ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := l.entries[id]; ok {
			valid = append(valid, id)
			continue
		}
		l.opts.report(Diagnostic{Kind: DiagUnknownSharer, ExpenseID: expenseID, Additional: additional, ParticipantID: id})
	}
	if len(valid) == 0 {
		l.opts.report(Diagnostic{Kind: DiagNoValidSharers, ExpenseID: expenseID, Additional: additional})
	}
	return valid
}

func (l *ledger) credit(expenseID string, additional bool, payer string, amount float64) {
	e, ok := l.entries[payer]
	if !ok {
		l.opts.report(Diagnostic{Kind: DiagUnknownPayer, ExpenseID: expenseID, Additional: additional, ParticipantID: payer})
		return
	}
	e.paid += amount
}

func (l *ledger) charge(id string, cents int64, item models.OwedItem) {
	e := l.entries[id]
	e.owedCents += cents
	item.Amount = fromCents(cents)
	e.items = append(e.items, item)
}

// applyExpenses folds direct expenses into the ledger and returns the direct
// total in cents.
func (l *ledger) applyExpenses(expenses []models.Expense) int64 {
	var totalCents int64
	for _, exp := range expenses {
		sharers := l.sharers(exp.ID, false, exp.Participants)
		if len(sharers) == 0 {
			continue
		}

		shares := DistributeEqually(exp.Amount, len(sharers))
		for i, id := range sharers {
			l.charge(id, shares[i], models.OwedItem{
				ID:          exp.ID,
				Description: exp.Description,
				Type:        models.OwedItemBase,
			})
		}

		l.credit(exp.ID, false, exp.PaidBy, exp.Amount)
		totalCents += toCents(exp.Amount)
	}
	return totalCents
}

// snapshot captures every participant's owed cents after direct expenses.
func (l *ledger) snapshot() map[string]int64 {
	base := make(map[string]int64, len(l.entries))
	for id, e := range l.entries {
		base[id] = e.owedCents
	}
	return base
}

// applyAdditional folds additional expenses, weighting each split by the base
// snapshot so one additional expense never shifts the weights of the next.
func (l *ledger) applyAdditional(additional []models.AdditionalExpense, base map[string]int64) int64 {
	var totalCents int64
	for _, exp := range additional {
		sharers := l.sharers(exp.ID, true, exp.Participants)
		if len(sharers) == 0 {
			continue
		}

		l.credit(exp.ID, true, exp.PaidBy, exp.Amount)

		weights := make([]float64, len(sharers))
		for i, id := range sharers {
			weights[i] = float64(base[id])
		}

		shares := DistributeProportionally(exp.Amount, weights)
		for i, id := range sharers {
			l.charge(id, shares[i], models.OwedItem{
				ID:          exp.ID,
				Description: exp.Description,
				Type:        models.OwedItemAdditional,
			})
		}

		totalCents += toCents(exp.Amount)
	}
	return totalCents
}

// finalize builds the per-participant summaries in input order.
func (l *ledger) finalize() []models.ParticipantSummary {
	out := make([]models.ParticipantSummary, 0, len(l.order))
	for _, id := range l.order {
		e := l.entries[id]
		owed := fromCents(e.owedCents)
		out = append(out, models.ParticipantSummary{
			ParticipantID: id,
			Paid:          e.paid,
			Owed:          owed,
			Balance:       roundToCents(e.paid - owed),
			OwedItems:     e.items,
		})
	}
	return out
}

// Calculate computes the summary for one bill.
//
// Algorithm:
//   - Direct expenses: split equally among known sharers, payer credited the
//     full amount
//   - Snapshot owed totals after direct expenses
//   - Additional expenses: split in proportion to the snapshot
//   - balance = paid - owed, rounded to cents
//   - Settlements: greedy largest-first matching of debtors to creditors
//
// Unknown participant IDs are skipped. An expense left with no known sharers
// is dropped entirely, including its payer credit and its share of Total.
// Calculate never fails.
func Calculate(participants []models.Participant, expenses []models.Expense, additional []models.AdditionalExpense, opts ...Option) models.SplitBillSummary {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	l := newLedger(participants, o)
	directCents := l.applyExpenses(expenses)
	additionalCents := l.applyAdditional(additional, l.snapshot())

	perParticipant := l.finalize()
	return models.SplitBillSummary{
		Total:          fromCents(directCents) + fromCents(additionalCents),
		PerParticipant: perParticipant,
		Settlements:    Settle(perParticipant),
	}
}
