// Package gsheets binds the sheetmirror engine to the Google Sheets and
// Drive v4/v3 APIs. It implements sheetmirror.Remote and
// sheetmirror.Locator; authentication is a service-account credentials
// file passed straight to the Google client.
package gsheets

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/javajack/sheetmirror"
)

// valueInputOption lets the service parse input the way typed-in values
// are parsed (numbers, dates, formulas).
const valueInputOption = "USER_ENTERED"

// Service implements sheetmirror.Remote over the Sheets v4 API. Errors
// from the transport are returned unchanged; this layer does not retry,
// so a failed call never reaches the mirror's cache.
type Service struct {
	sv *sheets.Service
}

// NewService builds a Sheets client from a service-account credentials
// file.
func NewService(ctx context.Context, credentialsFile string) (*Service, error) {
	sv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &Service{sv: sv}, nil
}

// CreateDocument makes a new spreadsheet and returns its ID.
func (s *Service) CreateDocument(ctx context.Context, title string) (string, error) {
	resp, err := s.sv.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet %q: %w", title, err)
	}
	log.Debugf("created spreadsheet %q as %s", title, resp.SpreadsheetId)
	return resp.SpreadsheetId, nil
}

// GetValues fetches a range. An absent or empty payload is "no data", not
// an error.
func (s *Service) GetValues(ctx context.Context, docID, rng string, opts sheetmirror.ReadOptions) ([][]string, error) {
	resp, err := s.sv.Spreadsheets.Values.Get(docID, rng).
		ValueRenderOption(renderOption(opts)).
		DateTimeRenderOption(dateRenderOption(opts)).
		MajorDimension(opts.Orientation.MajorDimension()).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Values) == 0 {
		return nil, nil
	}
	return fromValues(resp.Values), nil
}

// UpdateValues writes a block at rng's top-left corner.
func (s *Service) UpdateValues(ctx context.Context, docID, rng string, orient sheetmirror.Orientation, values [][]string) error {
	_, err := s.sv.Spreadsheets.Values.Update(docID, rng, &sheets.ValueRange{
		Values:         toValues(values),
		MajorDimension: orient.MajorDimension(),
	}).ValueInputOption(valueInputOption).Context(ctx).Do()
	return err
}

// AppendValues appends rows after the table anchored at A1, at a position
// the service determines.
func (s *Service) AppendValues(ctx context.Context, docID string, values [][]string) error {
	_, err := s.sv.Spreadsheets.Values.Append(docID, "A1", &sheets.ValueRange{
		Values: toValues(values),
	}).ValueInputOption(valueInputOption).Context(ctx).Do()
	return err
}

// DeleteRows removes the 0-indexed row span [start, end), shifting later
// rows up.
func (s *Service) DeleteRows(ctx context.Context, docID string, start, end int) error {
	return s.batchUpdate(ctx, docID, &sheets.Request{
		DeleteRange: &sheets.DeleteRangeRequest{
			Range: &sheets.GridRange{
				SheetId:       0,
				StartRowIndex: int64(start),
				EndRowIndex:   int64(end),
			},
			ShiftDimension: "ROWS",
		},
	})
}

// InsertRows inserts end-start blank rows before the 0-indexed row start.
func (s *Service) InsertRows(ctx context.Context, docID string, start, end int) error {
	return s.batchUpdate(ctx, docID, &sheets.Request{
		InsertDimension: &sheets.InsertDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    0,
				Dimension:  "ROWS",
				StartIndex: int64(start),
				EndIndex:   int64(end),
			},
			InheritFromBefore: false,
		},
	})
}

// SortRows sorts the sheet ascending by the 0-indexed column.
func (s *Service) SortRows(ctx context.Context, docID string, col int, skipHeader bool) error {
	startRow := 0
	if skipHeader {
		startRow = 1
	}
	return s.batchUpdate(ctx, docID, &sheets.Request{
		SortRange: &sheets.SortRangeRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    int64(startRow),
				StartColumnIndex: 0,
			},
			SortSpecs: []*sheets.SortSpec{
				{DimensionIndex: int64(col), SortOrder: "ASCENDING"},
			},
		},
	})
}

// ClearRows deletes the first rows rows, data and formatting both.
func (s *Service) ClearRows(ctx context.Context, docID string, rows int) error {
	return s.batchUpdate(ctx, docID, &sheets.Request{
		DeleteRange: &sheets.DeleteRangeRequest{
			Range: &sheets.GridRange{
				SheetId:       0,
				StartRowIndex: 0,
				EndRowIndex:   int64(rows),
			},
			ShiftDimension: "ROWS",
		},
	})
}

// FormatHeaderRow shades and bolds row 1, centers it, and freezes it.
func (s *Service) FormatHeaderRow(ctx context.Context, docID string) error {
	grey := &sheets.Color{Red: 0.5, Green: 0.5, Blue: 0.5}
	black := &sheets.Color{}
	return s.batchUpdate(ctx, docID,
		&sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       0,
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor:     grey,
						HorizontalAlignment: "CENTER",
						TextFormat: &sheets.TextFormat{
							ForegroundColor: black,
							FontSize:        12,
							Bold:            true,
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)",
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        0,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)
}

// FormatBold renders the 1-indexed inclusive range bold 12pt, left
// aligned, overflowing instead of wrapping.
func (s *Service) FormatBold(ctx context.Context, docID string, rng sheetmirror.Range) error {
	return s.batchUpdate(ctx, docID, &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    int64(rng.Start.Row - 1),
				EndRowIndex:      int64(rng.End.Row),
				StartColumnIndex: int64(rng.Start.Col - 1),
				EndColumnIndex:   int64(rng.End.Col),
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					WrapStrategy:        "OVERFLOW_CELL",
					HorizontalAlignment: "LEFT",
					TextFormat: &sheets.TextFormat{
						FontSize: 12,
						Bold:     true,
					},
				},
			},
			Fields: "userEnteredFormat(textFormat,horizontalAlignment,wrapStrategy)",
		},
	})
}

func (s *Service) batchUpdate(ctx context.Context, docID string, reqs ...*sheets.Request) error {
	_, err := s.sv.Spreadsheets.BatchUpdate(docID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	return err
}

func renderOption(opts sheetmirror.ReadOptions) string {
	if opts.Formatted {
		return "FORMATTED_VALUE"
	}
	return "UNFORMATTED_VALUE"
}

func dateRenderOption(opts sheetmirror.ReadOptions) string {
	if opts.DateAsSerial {
		return "SERIAL_NUMBER"
	}
	return "FORMATTED_STRING"
}

func toValues(values [][]string) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		out[i] = make([]interface{}, len(row))
		for j, v := range row {
			out[i][j] = v
		}
	}
	return out
}

func fromValues(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				out[i][j] = s
			} else {
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out
}
