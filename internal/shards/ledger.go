package shards

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LedgerFile records the fingerprint of every converted source document.
const LedgerFile = ".processed-files.json"

// ErrLedgerCorrupt reports a ledger that cannot be parsed; callers receive an
// empty ledger alongside it and may rebuild.
var ErrLedgerCorrupt = errors.New("shards: processed ledger corrupt")

// Ledger maps a source path to the fingerprint last converted.
type Ledger map[string]string

// Seen reports whether path was converted with the same fingerprint.
func (l Ledger) Seen(path, fingerprint string) bool {
	recorded, ok := l[path]
	return ok && recorded == fingerprint
}

// LoadLedger reads the ledger from dir. A missing ledger is empty.
func LoadLedger(dir string) (Ledger, error) {
	data, err := os.ReadFile(filepath.Join(dir, LedgerFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Ledger{}, nil
		}
		return nil, fmt.Errorf("shards: read ledger: %w", err)
	}
	ledger := Ledger{}
	if err := json.Unmarshal(data, &ledger); err != nil {
		return Ledger{}, fmt.Errorf("%w: %v", ErrLedgerCorrupt, err)
	}
	return ledger, nil
}

// SaveLedger writes the ledger to dir.
func SaveLedger(dir string, ledger Ledger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("shards: create %s: %w", dir, err)
	}
	return writeJSON(filepath.Join(dir, LedgerFile), ledger)
}
