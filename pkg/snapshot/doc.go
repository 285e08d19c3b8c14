// Package snapshot persists full point-in-time copies of the account map.
//
// A snapshot is a single JSON document containing every balance plus a
// timestamp. Each Save fully overwrites the previous snapshot; there is no
// history and no relationship to write-ahead log positions.
//
// The file implementation writes atomically (temp file, then rename) so a
// crash mid-save never leaves a torn snapshot behind.
package snapshot
