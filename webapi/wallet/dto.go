package wallet

// AmountRequest is the payload for deposits and withdrawals. Amount is in
// main units of the given currency.
type AmountRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,oneof=USD BTC usd btc"`
}

// TransferRequest names the recipient by user id or exact email address.
type TransferRequest struct {
	Recipient string  `json:"recipient" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"omitempty,oneof=USD BTC usd btc"`
	Note      string  `json:"note" validate:"omitempty,max=255"`
}

// ConvertRequest exchanges between the two sides of the caller's wallet.
// The only valid pairs are USD/BTC and BTC/USD.
type ConvertRequest struct {
	From   string  `json:"from" validate:"required,oneof=USD BTC usd btc"`
	To     string  `json:"to" validate:"required,oneof=USD BTC usd btc"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// WalletResponse carries balances in main units for the client.
type WalletResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	FiatBalance   float64 `json:"fiat_balance"`
	CryptoBalance float64 `json:"crypto_balance"`
}
