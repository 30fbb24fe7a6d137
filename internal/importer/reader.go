// Package importer loads bulk client files and classifies every row as
// accepted, duplicate or rejected without ever aborting the batch.
package importer

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/match"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
)

// columnMap holds the detected index of each known column, -1 if absent.
type columnMap struct {
	name, taxID, email, phone, site, city, state int
}

// headerAliases maps normalized header cells to logical columns. Covers
// the Portuguese spellings bulk files arrive with.
var headerAliases = map[string]string{
	"nome":          "name",
	"razao social":  "name",
	"empresa":       "name",
	"cliente":       "name",
	"name":          "name",
	"cnpj":          "tax_id",
	"cpf cnpj":      "tax_id",
	"tax id":        "tax_id",
	"email":         "email",
	"e mail":        "email",
	"telefone":      "phone",
	"fone":          "phone",
	"celular":       "phone",
	"phone":         "phone",
	"site":          "site",
	"website":       "site",
	"url":           "site",
	"cidade":        "city",
	"municipio":     "city",
	"city":          "city",
	"estado":        "state",
	"uf":            "state",
	"state":         "state",
}

// detectColumns maps header cells to logical columns. Matching is
// accent- and case-insensitive.
func detectColumns(header []string) columnMap {
	cols := columnMap{name: -1, taxID: -1, email: -1, phone: -1, site: -1, city: -1, state: -1}
	for i, cell := range header {
		key := normalizeHeader(cell)
		switch headerAliases[key] {
		case "name":
			if cols.name == -1 {
				cols.name = i
			}
		case "tax_id":
			if cols.taxID == -1 {
				cols.taxID = i
			}
		case "email":
			if cols.email == -1 {
				cols.email = i
			}
		case "phone":
			if cols.phone == -1 {
				cols.phone = i
			}
		case "site":
			if cols.site == -1 {
				cols.site = i
			}
		case "city":
			if cols.city == -1 {
				cols.city = i
			}
		case "state":
			if cols.state == -1 {
				cols.state = i
			}
		}
	}
	return cols
}

func normalizeHeader(cell string) string {
	s := match.StripAccents(strings.ToLower(strings.TrimSpace(cell)))
	s = strings.NewReplacer("_", " ", "-", " ", "/", " ", ".", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func (c columnMap) hasName() bool { return c.name >= 0 }

func pick(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func mapRows(rows [][]string) ([]model.ImportRow, error) {
	if len(rows) == 0 {
		return nil, eris.New("importer: file has no rows")
	}
	cols := detectColumns(rows[0])
	if !cols.hasName() {
		return nil, eris.New("importer: no name column detected in header")
	}

	out := make([]model.ImportRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		row := model.ImportRow{
			Number: i + 2, // 1-based, header is row 1
			Name:   pick(cells, cols.name),
			TaxID:  pick(cells, cols.taxID),
			Email:  pick(cells, cols.email),
			Phone:  pick(cells, cols.phone),
			Site:   pick(cells, cols.site),
			City:   pick(cells, cols.city),
			State:  pick(cells, cols.state),
		}
		out = append(out, row)
	}
	return out, nil
}

// LoadCSV reads a client import file in CSV form. The first row must be
// a header; columns are detected by name.
func LoadCSV(path string) ([]model.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "importer: read csv")
		}
		rows = append(rows, record)
	}
	return mapRows(rows)
}

// LoadXLSX reads a client import file from the first sheet of an XLSX
// workbook.
func LoadXLSX(path string) ([]model.ImportRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		rows = append(rows, cells)
	}
	return mapRows(rows)
}
