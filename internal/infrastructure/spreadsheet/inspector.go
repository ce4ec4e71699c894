// Package spreadsheet reads uploaded data files and writes report workbooks
package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// stockExportSchema describes a JSON stock export: a list of records, each
// naming at least the product
const stockExportSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["product"],
		"properties": {
			"product": {"type": "string", "minLength": 1},
			"date": {"type": "string"},
			"quantitySold": {"type": ["number", "string"]},
			"stockRemaining": {"type": ["number", "string"]}
		}
	}
}`

const maxNoteErrors = 3

// Inspector implements port.AttachmentInspector for csv, xlsx, xls and json files
type Inspector struct {
	schema *gojsonschema.Schema
	logger *zap.Logger
}

// NewInspector creates a new Inspector
func NewInspector(logger *zap.Logger) (*Inspector, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(stockExportSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile stock export schema: %w", err)
	}
	return &Inspector{schema: schema, logger: logger}, nil
}

// Inspect summarises the rows found in an attachment. Files that are
// readable but not in the expected shape produce an unparsed summary with
// a note; files that cannot be read at all return an error.
func (i *Inspector) Inspect(ctx context.Context, att entity.Attachment, content []byte) (entity.AttachmentSummary, error) {
	summary := entity.AttachmentSummary{
		AttachmentID: att.ID,
		FileName:     att.FileName,
		Format:       att.Format(),
	}

	var err error
	switch att.Extension() {
	case ".csv":
		err = i.inspectCSV(content, &summary)
	case ".xlsx":
		err = i.inspectXLSX(content, &summary)
	case ".xls":
		summary.Note = "legacy .xls workbooks are stored but not read; save as .xlsx for analysis"
	case ".json":
		err = i.inspectJSON(content, &summary)
	default:
		return summary, fmt.Errorf("unsupported attachment type %q", att.Extension())
	}
	if err != nil {
		return summary, err
	}

	i.logger.Debug("Attachment inspected",
		zap.String("attachment_id", att.ID),
		zap.String("format", summary.Format),
		zap.Int("rows", summary.Rows),
		zap.Bool("parsed", summary.Parsed))
	return summary, nil
}

func (i *Inspector) inspectCSV(content []byte, summary *entity.AttachmentSummary) error {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		summary.Parsed = true
		summary.Note = "file is empty"
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read csv header: %w", err)
	}

	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read csv row %d: %w", rows+2, err)
		}
		if isBlankRecord(record) {
			continue
		}
		rows++
	}

	summary.Rows = rows
	summary.Parsed = true
	summary.Note = "columns: " + strings.Join(header, ", ")
	return nil
}

func (i *Inspector) inspectXLSX(content []byte, summary *entity.AttachmentSummary) error {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		summary.Sheets = append(summary.Sheets, sheet)

		// first non-blank row of each sheet is its header
		headerSeen := false
		for _, row := range rows {
			if isBlankRecord(row) {
				continue
			}
			if !headerSeen {
				headerSeen = true
				continue
			}
			summary.Rows++
		}
	}

	summary.Parsed = true
	return nil
}

func (i *Inspector) inspectJSON(content []byte, summary *entity.AttachmentSummary) error {
	var document interface{}
	if err := json.Unmarshal(content, &document); err != nil {
		return fmt.Errorf("failed to decode json: %w", err)
	}

	result, err := i.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate json: %w", err)
	}

	if !result.Valid() {
		errs := result.Errors()
		notes := make([]string, 0, maxNoteErrors)
		for n, desc := range errs {
			if n == maxNoteErrors {
				break
			}
			notes = append(notes, desc.String())
		}
		summary.Note = fmt.Sprintf("not a stock export (%d problems): %s", len(errs), strings.Join(notes, "; "))
		return nil
	}

	if records, ok := document.([]interface{}); ok {
		summary.Rows = len(records)
	}
	summary.Parsed = true
	return nil
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// Verify interface compliance
var _ port.AttachmentInspector = (*Inspector)(nil)
