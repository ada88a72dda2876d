package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	folder string
	name   string
	data   []byte
}

func (f *fakeUploader) UploadImage(_ context.Context, folder, name string, r io.Reader) (string, error) {
	f.folder = folder
	f.name = name
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.data = b
	return "https://cdn.example.com/" + folder + "/" + name, nil
}

func newUploadContext(t *testing.T, field string, content []byte) echo.Context {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/crew/1/upload-image", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec)
}

// Smallest valid PNG header, enough for content sniffing.
var pngHead = []byte("\x89PNG\r\n\x1a\n" + "rest of the file")

func TestUploadImage(t *testing.T) {
	up := &fakeUploader{}
	c := newUploadContext(t, "image", pngHead)

	url, err := uploadImage(c, up, "crew", "crew-1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/crew/crew-1", url)
	assert.Equal(t, "crew", up.folder)
	assert.Equal(t, "crew-1", up.name)
	// The reader must be rewound after sniffing so the full file is stored.
	assert.Equal(t, pngHead, up.data)
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	up := &fakeUploader{}
	c := newUploadContext(t, "image", []byte("just some plain text, not an image"))

	_, err := uploadImage(c, up, "crew", "crew-1")
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Nil(t, up.data)
}

func TestUploadImageMissingFile(t *testing.T) {
	c := newUploadContext(t, "picture", pngHead)

	_, err := uploadImage(c, &fakeUploader{}, "crew", "crew-1")
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestUploadImageStorageNotConfigured(t *testing.T) {
	c := newUploadContext(t, "image", pngHead)

	_, err := uploadImage(c, nil, "crew", "crew-1")
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
}
