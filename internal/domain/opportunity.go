package domain

import "time"

// Opportunity is one directional buy-low/sell-high recommendation. BuyPrice
// and SellPrice are the raw listed prices on the respective markets; Profit
// is fee-adjusted and rounded to 2 decimal places.
type Opportunity struct {
	ItemName   string  `json:"item_name"`
	BuyMarket  Market  `json:"buy_market"`
	BuyPrice   float64 `json:"buy_price"`
	SellMarket Market  `json:"sell_market"`
	SellPrice  float64 `json:"sell_price"`
	Profit     float64 `json:"profit"`
}

// ScanResult summarizes one analysis run, as published on the signal bus and
// pushed to notification channels.
type ScanResult struct {
	ScanID        string        `json:"scan_id"`
	Band          PriceBand     `json:"band"`
	TonnelItems   int           `json:"tonnel_items"`
	PortalsItems  int           `json:"portals_items"`
	Opportunities []Opportunity `json:"opportunities"`
	ScannedAt     time.Time     `json:"scanned_at"`
}
