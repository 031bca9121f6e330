package models

import "time"

// Preparation is one persisted run of the swap-preparation pipeline.
// AmountRaw is stored as text because uint256 values overflow int64.
type Preparation struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	ActivityDay     string    `json:"activityDay"`
	ChainID         int64     `json:"chainId"`
	TokenIn         string    `json:"tokenIn"`
	TokenOut        string    `json:"tokenOut"`
	SymbolIn        *string   `json:"symbolIn,omitempty"`
	SymbolOut       *string   `json:"symbolOut,omitempty"`
	AmountHuman     float64   `json:"amountHuman"`
	AmountRaw       *string   `json:"amountRaw,omitempty"`
	SlippagePercent float64   `json:"slippagePercent"`
	ApprovalTxHash  *string   `json:"approvalTxHash,omitempty"`
	Status          string    `json:"status"` // "prepared" or "failed"
	FailReason      *string   `json:"failReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type PreparationStats struct {
	Total         int64      `json:"total"`
	Prepared      int64      `json:"prepared"`
	Failed        int64      `json:"failed"`
	ApprovalsSent int64      `json:"approvalsSent"`
	FirstRun      *time.Time `json:"firstRun"`
	LastRun       *time.Time `json:"lastRun"`
}
