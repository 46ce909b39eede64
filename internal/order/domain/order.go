package domain

import "time"

// Order represents a placed order. Items are a frozen snapshot of the cart at
// submission time; Status is the only field mutated after creation. Version
// guards status updates against concurrent admin writes.
type Order struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	CustomerName string      `json:"customer_name"`
	Address      Address     `json:"address"`
	Status       Status      `json:"status"`
	Items        []OrderItem `json:"items"`
	TotalAmount  int64       `json:"total_amount"`
	Currency     string      `json:"currency"`
	Notes        string      `json:"notes,omitempty"`
	Version      int         `json:"version"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Address is the delivery address captured at checkout.
type Address struct {
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// OrderItem is a snapshotted cart line item. It deliberately copies display
// fields so later catalog edits do not rewrite order history.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Size      string  `json:"size,omitempty"`
	Extras    []Extra `json:"extras,omitempty"`
	UnitPrice int64   `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal int64   `json:"line_total"`
}

// Extra is a paid add-on snapshotted from the cart line item.
type Extra struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// SumItems recomputes the order total from the item line totals.
func (o *Order) SumItems() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].LineTotal
	}
	return total
}
