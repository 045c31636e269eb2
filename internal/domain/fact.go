package domain

// Fact is a single statement fetched from the remote source. It lives only for
// the duration of one interaction; only its ID is persisted, in the seen-facts
// ledger.
type Fact struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
