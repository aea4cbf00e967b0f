package entities

// TransferReceipt is the outcome of a point transfer between two wallets
type TransferReceipt struct {
	FromUserID  int64 `json:"from_user_id"`
	ToUserID    int64 `json:"to_user_id"`
	Amount      int64 `json:"amount"`
	FromBalance int64 `json:"from_balance"`
	ToBalance   int64 `json:"to_balance"`
}
