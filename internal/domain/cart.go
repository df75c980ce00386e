package domain

import "time"

// Cart holds the line items for one interactive session. There is a single
// logical writer per session; callers serialize mutations.
type Cart struct {
	SessionID string     `json:"sessionId"`
	Currency  string     `json:"currency"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartLine is one catalog item plus a quantity. A cart holds at most one line
// per item id, and a line never exists with quantity below 1.
type CartLine struct {
	ItemID         string `json:"itemId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// AddLine merges the item into the cart: an existing line gains quantity 1,
// otherwise a new line with quantity 1 is appended.
func (c *Cart) AddLine(item CatalogItem) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == item.ID {
			c.Lines[i].Quantity++
			c.UpdatedAt = time.Now().UTC()
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ItemID:         item.ID,
		Name:           item.Name,
		UnitPriceCents: item.PriceCents,
		Quantity:       1,
	})
	if c.Currency == "" {
		c.Currency = item.Currency
	}
	c.UpdatedAt = time.Now().UTC()
}

// RemoveLine deletes the line for itemID. A missing line is a no-op.
func (c *Cart) RemoveLine(itemID string) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return
		}
	}
}

// SetLineQuantity overwrites the quantity of an existing line. Quantities
// below 1 are ignored: dropping a line goes through RemoveLine, not here.
// A missing line is also a no-op.
func (c *Cart) SetLineQuantity(itemID string, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity = quantity
			c.UpdatedAt = time.Now().UTC()
			return
		}
	}
}

// TotalCents derives the cart total from the current lines on every call.
// The total is never stored, so it cannot go stale.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += int64(line.Quantity) * line.UnitPriceCents
	}
	return total
}

// TotalAmount is the display value of TotalCents in major currency units.
func (c *Cart) TotalAmount() float64 {
	return float64(c.TotalCents()) / 100
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
