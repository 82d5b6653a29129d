package cgd

// amountLayout says where a profile keeps the movement amount.
type amountLayout int

const (
	// signedColumn is one column holding "-10,00" for debits.
	signedColumn amountLayout = iota
	// debitCreditColumns are two unsigned columns, one per direction.
	debitCreditColumns
)

// profile is the header layout of one CGD export.
type profile struct {
	name   string
	date   string
	desc   string
	layout amountLayout
	amount string // signedColumn
	debit  string // debitCreditColumns
	credit string // debitCreditColumns
}

func (p profile) columns() []string {
	if p.layout == debitCreditColumns {
		return []string{p.date, p.desc, p.debit, p.credit}
	}

	return []string{p.date, p.desc, p.amount}
}

// matches reports whether header holds every column the profile reads.
func (p profile) matches(header map[string]int) bool {
	for _, col := range p.columns() {
		if _, ok := header[col]; !ok {
			return false
		}
	}

	return true
}

// Checked in order; card statements share columns with the others, so they
// go first.
var profiles = []profile{
	{name: "cartão", date: "Data", desc: "Descrição", layout: debitCreditColumns, debit: "Débito", credit: "Crédito"},
	{name: "extrato", date: "Data mov.", desc: "Descrição", layout: signedColumn, amount: "Movimento"},
	{name: "conta", date: "Data mov.", desc: "Descrição", layout: signedColumn, amount: "Montante"},
}
