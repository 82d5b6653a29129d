package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/pocket/internal/importer/cgd"
	"github.com/MrJamesThe3rd/pocket/internal/importer/pocket"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type Service struct {
	importers map[Format]Importer
}

// NewService wires the known formats. categorizer may be nil, in which case
// bank rows are left uncategorized.
func NewService(categorizer cgd.Categorizer) *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatPocket: pocket.NewParser(),
			FormatCGD:    cgd.NewParser(categorizer),
		},
	}
}

// ParseFormat accepts a format name case-insensitively; empty means pocket.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatPocket, nil
	}

	switch f {
	case FormatPocket, FormatCGD:
		return f, nil
	default:
		return "", fmt.Errorf("unknown import format: %s", s)
	}
}

func (s *Service) Import(ctx context.Context, format Format, r io.Reader) ([]transaction.CreateParams, error) {
	imp, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return imp.Parse(ctx, r)
}
