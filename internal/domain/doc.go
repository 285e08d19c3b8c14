// Package domain contains the core domain entities and value objects for ledgerd.
//
// This package represents the innermost layer of the application. It has no
// dependencies on infrastructure concerns (networking, file system, logging)
// and contains only the wire model, the write-ahead log records, and the
// error taxonomy shared between the engine and the transport.
//
// # Entities
//
//   - [Request]: A decoded client command; the set of implementations is closed
//   - [MutationEntry] / [TransferEntry]: Immutable write-ahead log records
//   - [BalanceChange]: Before/after view of one account touched by a transfer
package domain
