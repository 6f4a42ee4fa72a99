package storage

import "github.com/mmynk/duitraya/internal/models"

// Column is one assignment in an UPDATE statement.
type Column struct {
	Name  string
	Value any
}

// PatchColumns maps the set fields of a receiver patch to the receivers
// table columns they update, in a stable order. Backends render the
// placeholders themselves.
func PatchColumns(p models.ReceiverPatch) []Column {
	var cols []Column
	if p.Name != nil {
		cols = append(cols, Column{"name", *p.Name})
	}
	if p.Kind != nil {
		cols = append(cols, Column{"kind", string(*p.Kind)})
	}
	if p.RecipientCount != nil {
		cols = append(cols, Column{"recipient_count", *p.RecipientCount})
	}
	if p.AmountPerPacket != nil {
		cols = append(cols, Column{"amount_per_packet", *p.AmountPerPacket})
	}
	if p.Denomination != nil {
		cols = append(cols, Column{"denomination", *p.Denomination})
	}
	if p.Eligible != nil {
		cols = append(cols, Column{"is_eligible", *p.Eligible})
	}
	if p.Received != nil {
		cols = append(cols, Column{"is_received", *p.Received})
	}
	if p.Year != nil {
		cols = append(cols, Column{"year", *p.Year})
	}
	return cols
}
