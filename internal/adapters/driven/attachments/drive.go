package attachments

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/mailpage/internal/connectors/google"
)

// DriveUploader stores attachments in a Google Drive folder.
type DriveUploader struct {
	svc      *drive.Service
	folderID string
	limiter  *google.RateLimiter
}

// NewDriveUploader creates an uploader. An empty folderID uploads to the
// root of the drive.
func NewDriveUploader(svc *drive.Service, folderID string) *DriveUploader {
	return &DriveUploader{
		svc:      svc,
		folderID: folderID,
		limiter:  google.NewRateLimiter(google.ServiceDrive),
	}
}

// Upload creates the file, shares it with anyone holding the link and
// returns its view URL.
func (u *DriveUploader) Upload(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	file := &drive.File{Name: name, MimeType: mimeType}
	if u.folderID != "" {
		file.Parents = []string{u.folderID}
	}

	var created *drive.File
	err := u.limiter.Do(ctx, func() error {
		var err error
		created, err = u.svc.Files.Create(file).
			Media(bytes.NewReader(data)).
			Fields("id", "webViewLink").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	err = u.limiter.Do(ctx, func() error {
		_, err := u.svc.Permissions.Create(created.Id, &drive.Permission{Type: "anyone", Role: "reader"}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("share file: %w", err)
	}

	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return "https://drive.google.com/file/d/" + created.Id + "/view", nil
}
