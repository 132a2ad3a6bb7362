package badger

import "fmt"

// Key prefixes for different data types
const (
	ingestionRecordPrefix = "ingrec"
)

// makeIngestionKey generates the composite key for an ingestion record.
// Format: prefix:docID, so all records share a partition prefix and sort
// by doc_id within it.
func makeIngestionKey(docID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", ingestionRecordPrefix, docID))
}

// ingestionScanPrefix returns the prefix that covers every ingestion record.
func ingestionScanPrefix() []byte {
	return []byte(ingestionRecordPrefix + ":")
}
