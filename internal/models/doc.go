// Package models defines the core domain models for duitraya.
//
// # Models
//
//   - Receiver: a family or individual that gets money packets in a given year
//   - ReceiverPatch: a partial update to a Receiver (only set fields change)
//   - User: a registered account that owns receivers
//
// # Design Principles
//
//  1. Amounts are whole currency units (int64); there is no minor unit.
//  2. Every Receiver belongs to exactly one User via OwnerID. Nothing in this
//     package enforces ownership; storage and services do.
//  3. Use ID values instead of pointers for relationships.
//  4. Validation lives next to the type it validates so the service layer and
//     the storage layer agree on what a valid receiver is.
package models
