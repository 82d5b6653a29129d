package transaction

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// Response is the wire shape of a transaction. Dates are YYYY-MM-DD.
type Response struct {
	ID       uuid.UUID        `json:"id"`
	Date     string           `json:"date"`
	Category string           `json:"category"`
	Amount   int64            `json:"amount"`
	Type     transaction.Type `json:"type"`
	Notes    string           `json:"notes,omitempty"`
}

func ToResponse(tx transaction.Transaction) Response {
	return Response{
		ID:       tx.ID,
		Date:     tx.Date.Format("2006-01-02"),
		Category: tx.Category,
		Amount:   tx.Amount,
		Type:     tx.Type,
		Notes:    tx.Notes,
	}
}

func ToResponseList(txs []transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
