// Package models defines the persisted configuration records that feed the
// commission rules.
//
// # Records
//
//   - ServiceRule: the referral rate a vendor set for one of its services,
//     plus an optional platform fee override for that service
//   - ClientRule: per-client overrides of the platform fee, the client's
//     share of the referral remainder, and the missing-referrer policy
//
// Global defaults are not stored here; they come from configuration.
//
// # Design Principles
//
// 1. **Rates as basis points**: every rate is a money.Rate, never a float
// 2. **Optional overrides are pointers**: nil means "inherit the next level"
// 3. **IDs are opaque strings** owned by the surrounding marketplace
package models
