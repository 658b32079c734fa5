package model

// Table is a grid of cells detected on a page. Rows are ordered top to
// bottom; the first row is the header when one exists. Cells may be empty
// where the layout detector found nothing.
type Table struct {
	Rows [][]string `json:"rows"`
}

// HeaderRow returns the first row, or nil for an empty table.
func (t Table) HeaderRow() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// DataRows returns all rows after the header.
func (t Table) DataRows() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Page is one page of a source document, fully materialized before the
// pipeline runs: plain text plus zero or more detected tables.
type Page struct {
	Number int     `json:"number"`
	Text   string  `json:"text"`
	Tables []Table `json:"tables,omitempty"`
}
