package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV_PortugueseHeaders(t *testing.T) {
	path := writeTempCSV(t,
		"Razão Social,CNPJ,E-mail,Telefone,Município,UF\n"+
			"Acme Embalagens,11.222.333/0001-81,contato@acme.com.br,(11) 91234-5678,São Paulo,SP\n"+
			"Beta Plásticos,,,,Campinas,SP\n")

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "Acme Embalagens", rows[0].Name)
	assert.Equal(t, "11.222.333/0001-81", rows[0].TaxID)
	assert.Equal(t, "contato@acme.com.br", rows[0].Email)
	assert.Equal(t, "(11) 91234-5678", rows[0].Phone)
	assert.Equal(t, "São Paulo", rows[0].City)
	assert.Equal(t, "SP", rows[0].State)

	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, "Beta Plásticos", rows[1].Name)
	assert.Empty(t, rows[1].TaxID)
}

func TestLoadCSV_ShortRowsTolerated(t *testing.T) {
	path := writeTempCSV(t,
		"nome,cidade,estado\n"+
			"Empresa Curta\n")

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Empresa Curta", rows[0].Name)
	assert.Empty(t, rows[0].City)
}

func TestLoadCSV_NoNameColumn(t *testing.T) {
	path := writeTempCSV(t, "cidade,estado\nSão Paulo,SP\n")

	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name column")
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Clientes")
	require.NoError(t, err)
	for _, cells := range [][]string{
		{"Empresa", "CNPJ", "Cidade", "Estado"},
		{"Acme Embalagens", "11.222.333/0001-81", "São Paulo", "SP"},
		{"Beta Plásticos", "", "Campinas", "SP"},
	} {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	require.NoError(t, f.Save(path))

	rows, err := LoadXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme Embalagens", rows[0].Name)
	assert.Equal(t, "11.222.333/0001-81", rows[0].TaxID)
	assert.Equal(t, "São Paulo", rows[0].City)
	assert.Equal(t, "Beta Plásticos", rows[1].Name)
}

func TestDetectColumns_FirstMatchWins(t *testing.T) {
	cols := detectColumns([]string{"Nome", "Razão Social", "cnpj", "CNPJ"})
	assert.Equal(t, 0, cols.name)
	assert.Equal(t, 2, cols.taxID)
}
