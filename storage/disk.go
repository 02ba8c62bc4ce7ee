// Package storage saves uploaded media under a local directory that the
// HTTP server exposes at /static/uploads.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Team-Name-exists/Heritiq/apperr"
)

type Kind string

const (
	KindImage Kind = "images"
	KindVideo Kind = "videos"
)

var allowed = map[Kind]map[string]bool{
	KindImage: {".png": true, ".jpg": true, ".jpeg": true, ".gif": true},
	KindVideo: {".mp4": true},
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Disk writes files below Root. Returned paths are relative to Root and use
// forward slashes so they can be joined onto the public URL prefix.
type Disk struct {
	Root     string
	MaxBytes int64
}

func NewDisk(root string, maxBytes int64) *Disk {
	return &Disk{Root: root, MaxBytes: maxBytes}
}

func Allowed(kind Kind, filename string) bool {
	return allowed[kind][strings.ToLower(filepath.Ext(filename))]
}

// SanitizeName strips directories and anything outside [A-Za-z0-9._-].
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}

func (d *Disk) Save(fh *multipart.FileHeader, kind Kind) (string, error) {
	if fh == nil {
		return "", apperr.Validation("File is required")
	}
	if !Allowed(kind, fh.Filename) {
		return "", apperr.Validation(fmt.Sprintf("File type not allowed: %s", filepath.Ext(fh.Filename)))
	}
	if d.MaxBytes > 0 && fh.Size > d.MaxBytes {
		return "", apperr.Validation("File is too large")
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindValidation, "Could not read upload")
	}
	defer src.Close()

	return d.write(src, kind, fh.Filename)
}

func (d *Disk) write(src io.Reader, kind Kind, filename string) (string, error) {
	dir := filepath.Join(d.Root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Persistence(err, "create upload dir")
	}

	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")
	name := prefix + "_" + SanitizeName(filename)

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", apperr.Persistence(err, "create upload file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", apperr.Persistence(err, "write upload file")
	}
	return path.Join(string(kind), name), nil
}
