package domain

// Inventory maps missile types to owned quantities. Missing keys mean zero.
type Inventory map[MissileID]int64

// InventoryEntry is one non-zero inventory line.
type InventoryEntry struct {
	Missile  MissileID `json:"missile"`
	Quantity int64     `json:"quantity"`
}

// Entries returns the non-zero lines in display order.
func (inv Inventory) Entries() []InventoryEntry {
	out := make([]InventoryEntry, 0, len(inv))
	for _, id := range AllMissiles() {
		if q := inv[id]; q > 0 {
			out = append(out, InventoryEntry{Missile: id, Quantity: q})
		}
	}
	return out
}

func (inv Inventory) Clone() Inventory {
	c := make(Inventory, len(inv))
	for k, v := range inv {
		c[k] = v
	}
	return c
}
