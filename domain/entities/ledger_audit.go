package entities

// LedgerAudit compares a wallet's stored balance against the sum of its
// ledger entries. The two must agree; a mismatch means the append-only
// invariant was violated somewhere outside the wallet service.
type LedgerAudit struct {
	UserID     int64 `json:"user_id"`
	Balance    int64 `json:"balance"`
	LedgerSum  int64 `json:"ledger_sum"`
	Consistent bool  `json:"consistent"`
}
