package importer

import (
	"context"
	"io"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// Format identifies a supported CSV layout.
type Format string

const (
	// FormatPocket is the Date,Category,Amount,Type,Notes layout written by export.
	FormatPocket Format = "pocket"
	// FormatCGD is any of the Caixa Geral de Depósitos statement exports.
	FormatCGD Format = "cgd"
)

type Importer interface {
	Parse(ctx context.Context, r io.Reader) ([]transaction.CreateParams, error)
}
