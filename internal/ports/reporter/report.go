package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/thehale/sortprof/domain"
)

// Write encodes a snapshot of the store to w.
func Write(w io.Writer, store domain.StoreReader) error {
	// The snapshot is already JSON-serializable with averages computed.
	snapshot := store.GetSnapshot()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("reporter: encode snapshot: %w", err)
	}
	return nil
}
