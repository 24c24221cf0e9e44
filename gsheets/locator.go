package gsheets

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// mimeSpreadsheet is the Drive MIME type of a Sheets document.
const mimeSpreadsheet = "application/vnd.google-apps.spreadsheet"

// Locator resolves spreadsheet names to IDs by listing the account's
// Drive files, and creates spreadsheets through the Sheets service.
// It implements sheetmirror.Locator.
type Locator struct {
	files  *drive.Service
	sheets *Service
}

// NewLocator builds a Drive client from a service-account credentials
// file. Creation is delegated to the given Sheets service.
func NewLocator(ctx context.Context, credentialsFile string, sheets *Service) (*Locator, error) {
	files, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	return &Locator{files: files, sheets: sheets}, nil
}

// Find returns the ID of the named spreadsheet, or "" when the account
// has no spreadsheet by that name.
func (l *Locator) Find(ctx context.Context, name string) (string, error) {
	call := l.files.Files.List().
		Q(fmt.Sprintf("mimeType='%s'", mimeSpreadsheet)).
		Fields("nextPageToken, files(id, name)").
		Context(ctx)
	for {
		resp, err := call.Do()
		if err != nil {
			return "", fmt.Errorf("list spreadsheets: %w", err)
		}
		for _, f := range resp.Files {
			log.Debugf("spreadsheet: %q", f.Name)
			if f.Name == name {
				return f.Id, nil
			}
		}
		if resp.NextPageToken == "" {
			return "", nil
		}
		call = call.PageToken(resp.NextPageToken)
	}
}

// Create makes a new spreadsheet with the given title and returns its ID.
func (l *Locator) Create(ctx context.Context, name string) (string, error) {
	return l.sheets.CreateDocument(ctx, name)
}
