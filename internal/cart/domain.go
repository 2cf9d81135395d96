package cart

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Entry is one cart line. Name and UnitPrice are snapshots taken when
// the product was first added; they are not refreshed on later adds.
type Entry struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (e Entry) Subtotal() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart maps product id to its entry. It lives only in the session store.
type Cart map[int64]*Entry

// Add merges quantity into an existing entry or inserts a new one with
// the given snapshot. An existing entry keeps its original snapshot.
func (c Cart) Add(productID int64, name string, unitPrice decimal.Decimal, quantity int) {
	quantity = ClampQuantity(quantity)
	if entry, ok := c[productID]; ok {
		entry.Quantity += quantity
		return
	}
	c[productID] = &Entry{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}
}

// Remove deletes the entry and reports whether it was present.
func (c Cart) Remove(productID int64) bool {
	if _, ok := c[productID]; !ok {
		return false
	}
	delete(c, productID)
	return true
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Entries returns the lines sorted by product id for a stable order.
func (c Cart) Entries() []Entry {
	entries := make([]Entry, 0, len(c))
	for _, entry := range c {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProductID < entries[j].ProductID
	})
	return entries
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c {
		total = total.Add(entry.Subtotal())
	}
	return total
}

// ClampQuantity keeps quantities positive; anything below 1 becomes 1.
// Invalid input defaulting to a single unit is deliberate, not a bug.
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}
