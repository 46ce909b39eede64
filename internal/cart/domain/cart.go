package domain

import "time"

// SizeSelection identifies the chosen size variant of a product, snapshotted
// at add-time so later catalog edits do not affect existing carts.
type SizeSelection struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Extra is a paid add-on attached to a line item.
type Extra struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// LineItem represents a single distinguishable entry in the cart. Two line
// items are the same entry only when product, size, and extras all match;
// otherwise they are distinct entries even for the same product.
type LineItem struct {
	ProductID string         `json:"product_id"`
	Title     string         `json:"title"`
	ImageURL  string         `json:"image_url,omitempty"`
	UnitPrice int64          `json:"unit_price"`
	Quantity  int            `json:"quantity"`
	Size      *SizeSelection `json:"size,omitempty"`
	Extras    []Extra        `json:"extras,omitempty"`
	LineTotal int64          `json:"line_total"`
}

// SameIdentity reports whether two line items are the same cart entry:
// identical product, identical size selection, and identical extras in the
// same order.
func (i *LineItem) SameIdentity(other *LineItem) bool {
	if i.ProductID != other.ProductID {
		return false
	}
	if (i.Size == nil) != (other.Size == nil) {
		return false
	}
	if i.Size != nil && (i.Size.Index != other.Size.Index || i.Size.Name != other.Size.Name) {
		return false
	}
	if len(i.Extras) != len(other.Extras) {
		return false
	}
	for k := range i.Extras {
		if i.Extras[k] != other.Extras[k] {
			return false
		}
	}
	return true
}

// Cart represents a user's shopping cart. TotalQuantity and TotalPrice are
// kept denormalized and updated on every mutation; after any operation they
// must equal the sums over Items.
type Cart struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Items         []LineItem `json:"items"`
	TotalQuantity int        `json:"total_quantity"`
	TotalPrice    int64      `json:"total_price"`
	Currency      string     `json:"currency"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
}

// FindMatchingIndex returns the index of the line item with the same identity
// as the candidate, or -1 if no entry matches.
func (c *Cart) FindMatchingIndex(item *LineItem) int {
	for i := range c.Items {
		if c.Items[i].SameIdentity(item) {
			return i
		}
	}
	return -1
}

// AddItem merges the candidate into an existing entry with the same identity,
// or appends it as a new entry. The candidate's Quantity must be >= 1; that is
// enforced at the service boundary, not here.
func (c *Cart) AddItem(item LineItem) {
	added := item.UnitPrice * int64(item.Quantity)

	if idx := c.FindMatchingIndex(&item); idx >= 0 {
		c.Items[idx].Quantity += item.Quantity
		c.Items[idx].LineTotal += added
	} else {
		item.LineTotal = added
		c.Items = append(c.Items, item)
	}

	c.TotalQuantity += item.Quantity
	c.TotalPrice += added
}

// RemoveItem deletes the entry at the given position. An out-of-range index is
// a no-op; the method reports whether anything was removed.
func (c *Cart) RemoveItem(index int) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}

	removed := c.Items[index]
	c.TotalQuantity -= removed.Quantity
	c.TotalPrice -= removed.LineTotal
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return true
}

// IncreaseQuantity adds one unit to the entry at the given position. It
// reports whether the index was in range.
func (c *Cart) IncreaseQuantity(index int) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}

	item := &c.Items[index]
	item.Quantity++
	item.LineTotal += item.UnitPrice
	c.TotalQuantity++
	c.TotalPrice += item.UnitPrice
	return true
}

// DecreaseQuantity removes one unit from the entry at the given position.
// Quantity never drops below 1: removal is a separate explicit action, so a
// decrease at quantity 1 leaves the cart unchanged. It reports whether the
// index was in range.
func (c *Cart) DecreaseQuantity(index int) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}

	item := &c.Items[index]
	if item.Quantity <= 1 {
		return true
	}
	item.Quantity--
	item.LineTotal -= item.UnitPrice
	c.TotalQuantity--
	c.TotalPrice -= item.UnitPrice
	return true
}

// Reset clears the cart to its empty state.
func (c *Cart) Reset() {
	c.Items = []LineItem{}
	c.TotalQuantity = 0
	c.TotalPrice = 0
}

// SumQuantity recomputes the total quantity from the items.
func (c *Cart) SumQuantity() int {
	var n int
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

// SumPrice recomputes the total price from the item line totals.
func (c *Cart) SumPrice() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].LineTotal
	}
	return total
}
