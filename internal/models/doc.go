// Package models defines the core domain models for splitbill.
//
// # Calculation inputs
//
//   - Participant: identity unit of a split (id + display name)
//   - Expense: a direct cost split equally among its sharers
//   - AdditionalExpense: a tax, service fee or discount split in proportion
//     to each sharer's direct-expense burden
//
// # Calculation outputs
//
//   - SplitBillSummary: grand total, per-participant figures and settlements
//   - ParticipantSummary: paid/owed/balance with itemized OwedItems
//   - Settlement: one directed transfer of the settlement plan
//
// # Persisted models
//
//   - Record: a saved bill (inputs plus the summary, stored verbatim)
//   - Friend: a participant stored under an owner's account
//   - User: a registered account
//
// Relationships use ID strings rather than pointers. Every type that is
// persisted or sent over the wire carries camelCase JSON tags so the summary
// can be serialized without a separate DTO layer.
package models
