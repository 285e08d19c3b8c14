// Package wal provides the append-only transaction log for ledgerd.
//
// The log is one JSON object per line, preceded by a single human-readable
// comment line written when the file is created. Appends are serialized and
// fsynced, so each record is a complete, independently parseable unit even
// under concurrent writers.
//
// # Usage
//
// Open a writer and append records after each committed mutation:
//
//	w, err := wal.Open("/var/lib/ledgerd/transactions.log")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Append(entry); err != nil {
//	    return err
//	}
//
// The log is advisory: ledgerd never replays it on startup. ReadAll exists
// for audit tooling and tests.
package wal
