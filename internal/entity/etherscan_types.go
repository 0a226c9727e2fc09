package entity

// AccountTxResponse is the envelope returned by the account module of
// Etherscan-compatible explorers. Status is "1" on success and "0" otherwise;
// Message carries the rejection reason (for example the PRO-tier notice on
// gated endpoints).
type AccountTxResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Result  []NativeTxRecord `json:"result"`
}

// TokenTxResponse is the envelope for the token-transfer query.
type TokenTxResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  []TokenTxRecord `json:"result"`
}

// BalanceHistoryResponse is the envelope for the historical balance query.
// Result is the raw balance in wei as a decimal string.
type BalanceHistoryResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// NativeTxRecord is one raw native-currency transfer as returned by the
// txlist action. All fields come over the wire as decimal strings.
type NativeTxRecord struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	ContractAddress string `json:"contractAddress"`
	Value           string `json:"value"`
	GasUsed         string `json:"gasUsed"`
	GasPrice        string `json:"gasPrice"`
}

// TokenTxRecord is one raw token transfer as returned by the tokentx action.
type TokenTxRecord struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	ContractAddress string `json:"contractAddress"`
	Value           string `json:"value"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
}
