// Package shop sells catalog items for dream dust and buys them back at
// their sell value.
package shop

import "time"

// Listing is one purchasable entry. Stock of -1 means unlimited; a non-nil
// AvailableUntil makes the listing seasonal.
type Listing struct {
	ItemName       string
	Description    string
	Emoji          string
	Price          int64
	Stock          int
	AvailableUntil *time.Time
}

// PurchaseResult reports a completed purchase.
type PurchaseResult struct {
	ItemName  string
	Emoji     string
	Qty       int64
	TotalCost int64
	Balance   int64
}

// SellResult reports a completed sale back to the shop.
type SellResult struct {
	ItemName string
	Emoji    string
	Qty      int64
	Earned   int64
	Balance  int64
}
