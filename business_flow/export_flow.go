package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/prospect"
	"github.com/leadmap/prospect-api/utils"
	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// exportColumns is the fixed export column order.
var exportColumns = []string{
	"Listing ID", "Property URL", "Street", "Unit", "City", "State",
	"Zip Code", "List Price", "Beds", "Baths", "Sqft", "Status",
	"Agent Name", "Agent Email", "Agent Phone", "MLS", "AI Score",
}

// ExportFlow renders the filtered listing set as a downloadable document.
type ExportFlow interface {
	Export(ctx context.Context, userID string, req *dto.ListingsRequest, format string) (*dto.ExportResponse, error)
}

type ExportFlowImpl struct {
	dashboard DashboardFlow
}

func NewExportFlow(dashboard DashboardFlow) ExportFlow {
	return &ExportFlowImpl{dashboard: dashboard}
}

func (f *ExportFlowImpl) Export(ctx context.Context, userID string, req *dto.ListingsRequest, format string) (*dto.ExportResponse, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, NewBusinessErrorf("UNSUPPORTED_EXPORT_FORMAT", "Unsupported export format %q", ErrUnsupportedExportFormat, format)
	}

	records, state, err := f.dashboard.FilteredListings(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	var data []byte
	var contentType string
	switch format {
	case ExportFormatCSV:
		data = BuildCSV(records)
		contentType = "text/csv"
	case ExportFormatXLSX:
		data, err = BuildXLSX(records)
		if err != nil {
			return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
		}
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return &dto.ExportResponse{
		Filename:    ExportFilename(state.Filter.Tokens(), format),
		ContentType: contentType,
		Data:        data,
		RowCount:    len(records),
	}, nil
}

// ExportFilename joins the active filter tokens and the ISO date:
// listings_expired_high_value_2026-09-01.csv
func ExportFilename(tokens []prospect.Category, format string) string {
	parts := make([]string, 0, len(tokens)+1)
	parts = append(parts, "listings")
	for _, t := range tokens {
		parts = append(parts, string(t))
	}
	return fmt.Sprintf("%s_%s.%s", strings.Join(parts, "_"), utils.ISODate(utils.UTCNow()), format)
}

// BuildCSV renders the listings with the fixed column order and every cell
// double-quoted, including the header.
func BuildCSV(records []*models.Listing) []byte {
	var b strings.Builder
	writeCSVRow(&b, exportColumns)
	for _, l := range records {
		writeCSVRow(&b, exportRow(l))
	}
	return []byte(b.String())
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// BuildXLSX renders the same rows as a single-sheet workbook.
func BuildXLSX(records []*models.Listing) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	const sheet = "Listings"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := make([]any, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c
	}
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for ri, l := range records {
		cells := exportRow(l)
		row := make([]any, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		if err := xl.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, err
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportRow(l *models.Listing) []string {
	baths := ""
	if l.FullBaths != nil || l.HalfBaths != nil {
		total := 0.0
		if l.FullBaths != nil {
			total += *l.FullBaths
		}
		if l.HalfBaths != nil {
			total += *l.HalfBaths * 0.5
		}
		baths = utils.FloatString(&total)
	}
	return []string{
		utils.StrOrEmpty(l.ListingID),
		utils.StrOrEmpty(l.PropertyURL),
		utils.StrOrEmpty(l.Street),
		utils.StrOrEmpty(l.Unit),
		utils.StrOrEmpty(l.City),
		utils.StrOrEmpty(l.State),
		utils.StrOrEmpty(l.ZipCode),
		utils.FloatString(l.ListPrice),
		utils.FloatString(l.Beds),
		baths,
		utils.FloatString(l.Sqft),
		utils.StrOrEmpty(l.Status),
		utils.StrOrEmpty(l.AgentName),
		utils.StrOrEmpty(l.AgentEmail),
		utils.StrOrEmpty(l.AgentPhone),
		utils.StrOrEmpty(l.MLS),
		utils.FloatString(l.AIScore),
	}
}
