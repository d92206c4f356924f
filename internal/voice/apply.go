package voice

import "wagewise/internal/core"

// Apply returns the ledger as it would look after intent is carried out.
// Created records are prepended with id newID; deletes drop every record with
// the target id. The input slice is left untouched.
func Apply(ledger []core.Transaction, intent Intent, newID string) []core.Transaction {
	switch intent.Kind {
	case KindCreate:
		out := make([]core.Transaction, 0, len(ledger)+1)
		out = append(out, intent.Transaction(newID))
		return append(out, ledger...)
	case KindDelete:
		out := make([]core.Transaction, 0, len(ledger))
		for _, tx := range ledger {
			if tx.ID != intent.TargetID {
				out = append(out, tx)
			}
		}
		return out
	}
	return append([]core.Transaction(nil), ledger...)
}

// Transaction builds the record a create intent describes.
func (i Intent) Transaction(id string) core.Transaction {
	return core.Transaction{
		ID:           id,
		Type:         i.Type,
		Amount:       i.Amount,
		Category:     i.Category,
		Date:         i.Date,
		Note:         i.Note,
		CurrencyCode: i.CurrencyCode,
	}
}
