package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"srv_contratos/validators"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const entitySheet = "Entidades"

var entityHeaders = []string{"Nome*", "Pessoa Jurídica (SIM/NAO)", "CPF", "RG", "CNPJ", "Endereço"}

// EntityImportResult contains the summary of a spreadsheet import
type EntityImportResult struct {
	TotalProcessed int      `json:"total"`
	SuccessCount   int      `json:"criadas"`
	FailedCount    int      `json:"falhas"`
	Errors         []string `json:"erros"`
}

// ExportXLSX writes every entity to a workbook using the import layout
func (s *EntityService) ExportXLSX(ctx context.Context) (*bytes.Buffer, error) {
	entities, err := s.List(ctx, EntityFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", entitySheet)
	for i, header := range entityHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(entitySheet, cell, header)
	}

	for i, e := range entities {
		row := i + 2
		kind := "NAO"
		if e.IsOrganization {
			kind = "SIM"
		}
		values := []interface{}{
			e.Name,
			kind,
			validators.FormatCPF(deref(e.PersonTaxID)),
			validators.FormatRG(deref(e.IdentityDocument)),
			validators.FormatCNPJ(deref(e.OrganizationTaxID)),
			deref(e.Address),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(entitySheet, cell, v)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(entitySheet, "A1", "F1", headerStyle)
	f.SetColWidth(entitySheet, "A", "A", 40)
	f.SetColWidth(entitySheet, "B", "E", 20)
	f.SetColWidth(entitySheet, "F", "F", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to write excel buffer")
	}
	return buf, nil
}

// ImportXLSX creates one entity per data row of the first sheet.
// Invalid rows are reported and skipped; valid rows are created.
func (s *EntityService) ImportXLSX(ctx context.Context, file io.Reader) (*EntityImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidValue, "failed to open excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(ErrInvalidValue, "invalid excel format: no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read entities sheet")
	}

	result := &EntityImportResult{Errors: []string{}}
	for i, row := range rows {
		if i == 0 {
			continue
		} // Header
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		result.TotalProcessed++
		input := entityInputFromRow(row)
		if _, err := s.Create(ctx, input); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", i+1, err))
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}

func entityInputFromRow(row []string) EntityInput {
	cell := func(idx int) *string {
		if idx >= len(row) {
			return nil
		}
		v := strings.TrimSpace(row[idx])
		if v == "" {
			return nil
		}
		return &v
	}

	isOrg := false
	if kind := cell(1); kind != nil {
		switch strings.ToUpper(*kind) {
		case "SIM", "S", "PJ", "TRUE", "1":
			isOrg = true
		}
	}

	return EntityInput{
		Name:              cell(0),
		IsOrganization:    &isOrg,
		PersonTaxID:       cell(2),
		IdentityDocument:  cell(3),
		OrganizationTaxID: cell(4),
		Address:           cell(5),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
