// Package drive implements the cloud-folder acquisition channel on the
// Google Drive API. Only document formats the extraction stage can
// handle are surfaced.
package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	driveapi "google.golang.org/api/drive/v3"

	"github.com/soubim/decisiond/internal/connectors/google"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

var _ driven.CloudFolder = (*Folder)(nil)

// SupportedMIMETypes maps Drive MIME types to the file type label
// recorded on the source. Anything else in a monitored folder is
// silently skipped.
var SupportedMIMETypes = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"text/plain": "txt",
}

// FileTypeFor returns the source file type for a Drive MIME type and
// whether the type is supported.
func FileTypeFor(mimeType string) (string, bool) {
	ft, ok := SupportedMIMETypes[mimeType]
	return ft, ok
}

// Folder is the Drive implementation of driven.CloudFolder.
type Folder struct {
	provider driven.TokenProvider
	caller   *google.Caller

	mu  sync.Mutex
	svc *driveapi.Service
}

// NewFolder creates a Drive folder reader for the given credential provider.
func NewFolder(provider driven.TokenProvider) *Folder {
	caller := google.NewCaller(google.ServiceDrive)
	caller.OnUnauthorized(provider.InvalidateCache)
	return &Folder{
		provider: provider,
		caller:   caller,
	}
}

func (f *Folder) service(ctx context.Context) (*driveapi.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.svc != nil {
		return f.svc, nil
	}
	svc, err := google.NewDriveService(ctx, google.NewTokenSource(ctx, f.provider))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	f.svc = svc
	return svc, nil
}

// ListNewFiles returns supported files in a folder modified after the
// given watermark, oldest first. Pagination is followed to exhaustion.
func (f *Folder) ListNewFiles(ctx context.Context, folderID string, since time.Time) ([]driven.FolderFile, error) {
	svc, err := f.service(ctx)
	if err != nil {
		return nil, err
	}

	var mimeClauses []string
	for mimeType := range SupportedMIMETypes {
		mimeClauses = append(mimeClauses, fmt.Sprintf("mimeType = '%s'", mimeType))
	}
	query := fmt.Sprintf(
		"'%s' in parents and trashed = false and modifiedTime > '%s' and (%s)",
		folderID,
		since.UTC().Format(time.RFC3339),
		strings.Join(mimeClauses, " or "),
	)

	var files []driven.FolderFile
	pageToken := ""
	for {
		var resp *driveapi.FileList
		err = f.caller.Do(ctx, func() error {
			call := svc.Files.List().
				Q(query).
				Fields("nextPageToken, files(id, name, mimeType, size, modifiedTime, webViewLink)").
				OrderBy("modifiedTime").
				PageSize(100).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var callErr error
			resp, callErr = call.Do()
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folderID, err)
		}

		for _, item := range resp.Files {
			modified, parseErr := time.Parse(time.RFC3339, item.ModifiedTime)
			if parseErr != nil {
				modified = time.Now().UTC()
			}
			files = append(files, driven.FolderFile{
				ID:           item.Id,
				Name:         item.Name,
				MIMEType:     item.MimeType,
				Size:         item.Size,
				ModifiedTime: modified.UTC(),
				WebViewLink:  item.WebViewLink,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return files, nil
}

// Download fetches the raw bytes of a file.
func (f *Folder) Download(ctx context.Context, fileID string) ([]byte, error) {
	svc, err := f.service(ctx)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = f.caller.Do(ctx, func() error {
		resp, callErr := svc.Files.Get(fileID).Context(ctx).Download()
		if callErr != nil {
			return callErr
		}
		defer resp.Body.Close()
		data, callErr = io.ReadAll(resp.Body)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	return data, nil
}
