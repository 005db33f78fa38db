// Package brew turns foraged ingredients into crafted items.
package brew

import (
	"fmt"
	"strings"
)

// Ingredient is one requirement of a recipe.
type Ingredient struct {
	ItemName string
	Qty      int64
}

// Recipe describes one craftable brew.
type Recipe struct {
	Name        string
	Description string
	OutputItem  string
	OutputQty   int64
	Ingredients []Ingredient
}

// Result reports a finished brew.
type Result struct {
	Recipe     string
	OutputItem string
	OutputQty  int64
}

// ShortfallError reports which ingredients were missing, so the reply can say
// exactly what to go find. Nothing is consumed when it is returned.
type ShortfallError struct {
	Recipe  string
	Missing []Ingredient
}

func (e *ShortfallError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("%d x %s", m.Qty, m.ItemName)
	}
	return fmt.Sprintf("missing ingredients for %s: %s", e.Recipe, strings.Join(parts, ", "))
}
