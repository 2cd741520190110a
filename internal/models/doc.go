// Package models defines the core domain models for the purchase ledger.
//
// # Models
//
//   - Purchase: one record in the append-indexed ledger, either funded by a
//     single payer or split across several contributors
//   - User: a registered account; the account name doubles as the identity
//     used for payers, contributors, and the administrator
//
// # Design Principles
//
//  1. **Minor units only**: all amounts are int64 in the asset's minor unit.
//     No floats anywhere near money.
//  2. **Immutability**: a Purchase is never mutated after creation; admin
//     deletion replaces it with its zero value but keeps the slot.
//  3. **Names as identities**: payers and contributors are account names
//     (strings), matching the token subject issued at login.
package models
