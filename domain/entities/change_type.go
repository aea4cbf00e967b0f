package entities

// ChangeType classifies a wallet balance change
type ChangeType string

// All change classifications recorded in the wallet ledger
const (
	ChangeTypeEarn        ChangeType = "earn"
	ChangeTypeSpend       ChangeType = "spend"
	ChangeTypeAdminAdjust ChangeType = "admin_adjust"
	ChangeTypeTransferIn  ChangeType = "transfer_in"
	ChangeTypeTransferOut ChangeType = "transfer_out"
)

// IsTransferType returns true if the classification represents a transfer leg
func (ct ChangeType) IsTransferType() bool {
	return ct == ChangeTypeTransferIn || ct == ChangeTypeTransferOut
}

// IsCredit returns true for classifications that normally add points
func (ct ChangeType) IsCredit() bool {
	return ct == ChangeTypeEarn || ct == ChangeTypeTransferIn
}

// IsDebit returns true for classifications that normally remove points
func (ct ChangeType) IsDebit() bool {
	return ct == ChangeTypeSpend || ct == ChangeTypeTransferOut
}

// String returns the string representation of the change type
func (ct ChangeType) String() string {
	return string(ct)
}

// Valid reports whether the classification is one the ledger accepts
func (ct ChangeType) Valid() bool {
	switch ct {
	case ChangeTypeEarn, ChangeTypeSpend, ChangeTypeAdminAdjust,
		ChangeTypeTransferIn, ChangeTypeTransferOut:
		return true
	}
	return false
}
