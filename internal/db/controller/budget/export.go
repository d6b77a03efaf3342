package budget

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/mandat"
	"github.com/ClubAdmin/ClubAdmin/internal/finance"
)

// ExportSheet is the name of the sheet written by Export.
const ExportSheet = "Budget"

// ContentTypeXLSX is the media type of the export.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []any{ //nolint:gochecknoglobals
	"Type", "Catégorie", "Sous-catégorie", "Rubrique", "Prix unitaire", "Quantité",
	"Prévu", "Réalisé", "Écart", "% réalisé", "Statut",
}

// Export writes the budget lines of a mandat as an XLSX workbook to w, followed by a total row.
func Export(db *gorm.DB, clubID, mandatID uuid.UUID, w io.Writer) error {
	m, err := mandat.Get(db, clubID, mandatID)
	if err != nil {
		return err
	}

	rows, err := details(db, mandatID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err = f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err = setRow(f, 1, []any{fmt.Sprintf("Budget %d", m.Year), m.Description}); err != nil {
		return err
	}

	if err = setRow(f, 3, exportHeader); err != nil { //nolint:mnd
		return err
	}

	lines := make([]finance.Line, 0, len(rows))
	next := 4

	for _, r := range rows {
		l := r.line()
		lines = append(lines, l)
		fig := finance.Evaluate(l)

		err = setRow(f, next, []any{
			r.Type, r.Category, r.SubCategory, r.Libelle,
			r.UnitPrice.InexactFloat64(), r.Quantity,
			fig.Planned.InexactFloat64(), fig.Realized.InexactFloat64(), fig.Variance.InexactFloat64(),
			fig.PercentRealized.InexactFloat64(), string(fig.Status),
		})
		if err != nil {
			return err
		}

		next++
	}

	total := finance.Total(lines)

	err = setRow(f, next, []any{
		"Total", "", "", "", "", "",
		total.Planned.InexactFloat64(), total.Realized.InexactFloat64(), total.Variance.InexactFloat64(),
		total.PercentRealized.InexactFloat64(), string(total.Status),
	})
	if err != nil {
		return err
	}

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}

	if err = f.SetSheetRow(ExportSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	return nil
}
