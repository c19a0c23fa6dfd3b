package extraction

import "strings"

// Payload is the decoded response of the extraction vendor: a
// kind-tagged set of key/value fields plus tabular sections. The three
// known kinds (balance sheet, income statement, personal financial
// statement) share this envelope and differ only in which fields and
// tables they populate, so the normalizers do explicit, prioritized
// lookups instead of duck-typing.
type Payload struct {
	DocumentKind string  `json:"document_kind"`
	Fields       []Field `json:"fields"`
	Tables       []Table `json:"tables"`
}

// Field is a single extracted key/value pair. Values are raw strings as
// read off the page, currency noise included.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Table is a named tabular section of the document.
type Table struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Row is one line of a table: a label and an amount column.
type Row struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Field returns the value of the first named field that is present and
// non-empty, trying names in priority order.
func (p *Payload) Field(names ...string) (string, bool) {
	for _, name := range names {
		for _, f := range p.Fields {
			if strings.EqualFold(f.Name, name) && strings.TrimSpace(f.Value) != "" {
				return f.Value, true
			}
		}
	}
	return "", false
}

// Table returns the first table whose name contains the given fragment,
// case-insensitively.
func (p *Payload) Table(fragment string) (*Table, bool) {
	fragment = strings.ToLower(fragment)
	for i := range p.Tables {
		if strings.Contains(strings.ToLower(p.Tables[i].Name), fragment) {
			return &p.Tables[i], true
		}
	}
	return nil, false
}
