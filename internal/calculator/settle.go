package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/splitbill/internal/models"
)

// settleEpsilon is the tolerance below which a working balance counts as
// settled. Working balances are kept on whole cents, so a one-cent residual
// is never mistaken for zero.
const settleEpsilon = 0.01

// party is a working copy of one participant's balance during settlement.
type party struct {
	id      string
	balance float64
}

// Settle derives the transfers that bring every balance to zero.
//
// Creditors (positive balance) are sorted largest first, debtors (negative
// balance) most negative first, and the two lists are matched greedily. This
// keeps the transaction count low without guaranteeing the global minimum.
// The input is not modified.
func Settle(balances []models.ParticipantSummary) []models.Settlement {
	var creditors, debtors []party
	for _, b := range balances {
		if b.Balance > 0 {
			creditors = append(creditors, party{id: b.ParticipantID, balance: b.Balance})
		} else if b.Balance < 0 {
			debtors = append(debtors, party{id: b.ParticipantID, balance: b.Balance})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].balance > creditors[j].balance
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].balance < debtors[j].balance
	})

	settlements := []models.Settlement{}
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		transfer := roundToCents(math.Min(creditor.balance, math.Abs(debtor.balance)))
		if transfer <= 0 {
			break
		}

		settlements = append(settlements, models.Settlement{
			From:   debtor.id,
			To:     creditor.id,
			Amount: transfer,
		})

		creditor.balance = roundToCents(creditor.balance - transfer)
		debtor.balance = roundToCents(debtor.balance + transfer)

		// Move to next creditor/debtor if fully settled
		if math.Abs(creditor.balance) < settleEpsilon {
			i++
		}
		if math.Abs(debtor.balance) < settleEpsilon {
			j++
		}
	}

	return settlements
}
