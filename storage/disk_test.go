package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Team-Name-exists/Heritiq/apperr"
)

// fileHeader builds a real multipart upload so Save can open it.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"photo.png":             "photo.png",
		"../../etc/passwd":      "passwd",
		`C:\Users\me\pic 1.JPG`: "pic_1.JPG",
		"héllo wörld.gif":       "h_llo_w_rld.gif",
		"...":                   "upload",
		"":                      "upload",
		".hidden.png":           "hidden.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(KindImage, "a.PNG"))
	assert.True(t, Allowed(KindImage, "a.jpeg"))
	assert.False(t, Allowed(KindImage, "a.mp4"))
	assert.True(t, Allowed(KindVideo, "clip.mp4"))
	assert.False(t, Allowed(KindVideo, "clip.mov"))
	assert.False(t, Allowed(KindImage, "noext"))
}

func TestSave(t *testing.T) {
	root := t.TempDir()
	disk := NewDisk(root, 1024)

	rel, err := disk.Save(fileHeader(t, "my vase.png", []byte("png-bytes")), KindImage)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "images/"))
	assert.True(t, strings.HasSuffix(rel, "_my_vase.png"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveRejects(t *testing.T) {
	disk := NewDisk(t.TempDir(), 4)

	_, err := disk.Save(nil, KindImage)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = disk.Save(fileHeader(t, "script.sh", []byte("x")), KindImage)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = disk.Save(fileHeader(t, "big.mp4", []byte("too large")), KindVideo)
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "File is too large", apperr.PublicMessage(err))
}
