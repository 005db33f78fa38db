// Package items owns the item catalog and per-account inventories.
package items

// Item is one catalog entry. Names are unique and matched case-insensitively
// on input, but stored and displayed in their canonical form.
type Item struct {
	Name        string
	Description string
	Emoji       string
	Rarity      string
	Category    string
	SellValue   int64
}

// InventoryEntry is one stack in a user's inventory.
type InventoryEntry struct {
	Item   Item
	Amount int64
}
