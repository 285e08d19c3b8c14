package wal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// ReadAll streams every record in the log at path through fn, skipping
// comment lines. It stops at the first callback error. Intended for audit
// tooling and tests; the engine never replays the log.
func ReadAll(path string, fn func(raw json.RawMessage) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open wal: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		raw := make(json.RawMessage, len(line))
		copy(raw, line)
		if !json.Valid(raw) {
			return fmt.Errorf("wal: invalid record: %q", line)
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	return scanner.Err()
}
