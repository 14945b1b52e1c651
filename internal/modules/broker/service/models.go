package service

type transactionsResponse struct {
	Transactions []transactionDTO `json:"transactions"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"total_pages"`
}

type transactionDTO struct {
	ID       string   `json:"id"`
	Exchange string   `json:"exchange"`
	Date     string   `json:"date"` // RFC3339
	Legs     []legDTO `json:"legs"`
}

type legDTO struct {
	AssetClass string `json:"asset_class"` // equity | option
	Symbol     string `json:"symbol"`
	Underlying string `json:"underlying"`
	OptionType string `json:"option_type"` // CALL | PUT
	Strike     string `json:"strike"`
	Expiry     string `json:"expiry"`
	Quantity   string `json:"quantity"` // signed
	Price      string `json:"price"`
	Fee        string `json:"fee"`
	Effect     string `json:"effect"`   // open | close
	FeeType    string `json:"fee_type"` // non-empty => fee/commission-only leg
}
