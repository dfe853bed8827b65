// Package report renders a settlement summary as plain text.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/models"
)

// Money formats an amount with exactly two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// names maps participant IDs to display names. Unknown IDs print as-is.
type names map[string]string

func newNames(participants []models.Participant) names {
	n := make(names, len(participants))
	for _, p := range participants {
		if _, ok := n[p.ID]; !ok && p.Name != "" {
			n[p.ID] = p.Name
		}
	}
	return n
}

func (n names) of(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return id
}

// Render writes the total, a per-participant table and the settlement list.
func Render(w io.Writer, participants []models.Participant, summary models.SplitBillSummary) error {
	n := newNames(participants)

	if _, err := fmt.Fprintf(w, "Total: %s\n\n", Money(summary.Total)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARTICIPANT\tPAID\tOWED\tBALANCE")
	for _, p := range summary.PerParticipant {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.of(p.ParticipantID), Money(p.Paid), Money(p.Owed), Money(p.Balance))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(summary.Settlements) == 0 {
		_, err := fmt.Fprintln(w, "\nAll settled.")
		return err
	}

	if _, err := fmt.Fprintln(w, "\nSettlements:"); err != nil {
		return err
	}
	for _, s := range summary.Settlements {
		if _, err := fmt.Fprintf(w, "  %s pays %s %s\n", n.of(s.From), n.of(s.To), Money(s.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// RenderBreakdown lists every participant's owed items.
func RenderBreakdown(w io.Writer, participants []models.Participant, summary models.SplitBillSummary) error {
	n := newNames(participants)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range summary.PerParticipant {
		fmt.Fprintf(tw, "%s\t\t\t\n", n.of(p.ParticipantID))
		for _, item := range p.OwedItems {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t\n", item.Description, item.Type, Money(item.Amount))
		}
	}
	return tw.Flush()
}
