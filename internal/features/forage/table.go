// Package forage lets members wander off and come back with items, on a
// four-hour timer.
package forage

import "github.com/haruware/mars-bot/internal/random"

// Find is one item discovered on a forage trip.
type Find struct {
	Name  string
	Emoji string
	Qty   int64
}

type tableEntry struct {
	Name  string
	Emoji string
}

// lootTable is the forage drop pool. Weights are relative shares; the Star
// Fragment's half point keeps it genuinely rare.
var lootTable = random.NewWeightedTable([]random.WeightedEntry[tableEntry]{
	{Value: tableEntry{"Pebble", "🪨"}, Weight: 30},
	{Value: tableEntry{"Wildflower", "🌼"}, Weight: 25},
	{Value: tableEntry{"Dewdrop", "💧"}, Weight: 20},
	{Value: tableEntry{"Mushroom", "🍄"}, Weight: 15},
	{Value: tableEntry{"Butterfly Wing", "🦋"}, Weight: 8},
	{Value: tableEntry{"Honey", "🍯"}, Weight: 7},
	{Value: tableEntry{"Moonstone", "🌙"}, Weight: 5},
	{Value: tableEntry{"Crystal Shard", "💎"}, Weight: 3},
	{Value: tableEntry{"Fairy Wing", "🧚"}, Weight: 2},
	{Value: tableEntry{"Star Fragment", "⭐"}, Weight: 0.5},
})

// roll draws one trip's worth of finds: one to three draws, each yielding
// one or two of an item, with duplicate draws merged into a single stack.
func roll(r random.Roller) []Find {
	draws := 1 + r.Intn(3)

	var finds []Find
	index := make(map[string]int)
	for i := 0; i < draws; i++ {
		entry := lootTable.Draw(r)
		qty := int64(1 + r.Intn(2))
		if pos, ok := index[entry.Name]; ok {
			finds[pos].Qty += qty
			continue
		}
		index[entry.Name] = len(finds)
		finds = append(finds, Find{Name: entry.Name, Emoji: entry.Emoji, Qty: qty})
	}
	return finds
}
