// File: internal/filestorage/service_test.go
package filestorage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUploadedFile(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(int64(buf.Len()) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["photo"]
	require.Len(t, files, 1)
	return files[0]
}

func TestSaveUploadedFile(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, zap.NewNop())
	require.NoError(t, err)

	fh := newUploadedFile(t, "engine.jpg", "image/jpeg", "fake-jpeg-bytes")
	relPath, err := svc.SaveUploadedFile(fh, "bookings")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(relPath, "bookings/"))
	assert.True(t, strings.HasSuffix(relPath, ".jpg"))

	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(relPath)))
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(content))
}

func TestSaveUploadedFileInfersExtensionFromContentType(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, zap.NewNop())
	require.NoError(t, err)

	fh := newUploadedFile(t, "photo", "image/png", "fake-png-bytes")
	relPath, err := svc.SaveUploadedFile(fh, "landing")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(relPath, ".png"))
}

func TestSaveUploadedFileRejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, zap.NewNop())
	require.NoError(t, err)

	fh := newUploadedFile(t, "script", "application/octet-stream", "binary")
	_, err = svc.SaveUploadedFile(fh, "bookings")
	assert.Error(t, err)
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, zap.NewNop())
	require.NoError(t, err)

	fh := newUploadedFile(t, "engine.jpg", "image/jpeg", "bytes")
	relPath, err := svc.SaveUploadedFile(fh, "bookings")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(relPath))
	_, statErr := os.Stat(filepath.Join(dir, filepath.FromSlash(relPath)))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting again is a no-op.
	assert.NoError(t, svc.DeleteFile(relPath))
}

func TestDeleteFileRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, zap.NewNop())
	require.NoError(t, err)

	err = svc.DeleteFile("../outside.txt")
	assert.Error(t, err)
}
