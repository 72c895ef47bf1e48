package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Storage stores uploaded document files and serves them back through
// signed, expiring URLs. Delete failures are the caller's to log and
// swallow; record deletion never blocks on the file.
type Storage interface {
	Store(file *multipart.FileHeader, subdir string) (path string, err error)
	Delete(path string) error
	URL(path string, ttl time.Duration) string
	Verify(path, expires, signature string) bool
	AbsolutePath(path string) string
}

// LocalStorage keeps files under a root directory on local disk and signs
// download URLs with an HMAC of path and expiry.
type LocalStorage struct {
	Root   string
	Secret string
}

func NewLocalStorage(root, secret string) *LocalStorage {
	return &LocalStorage{Root: root, Secret: secret}
}

// Store copies the uploaded file to <root>/<subdir>/<uuid><ext> and returns
// the path relative to the root.
func (ls *LocalStorage) Store(file *multipart.FileHeader, subdir string) (string, error) {
	relPath := filepath.Join(subdir, uuid.New().String()+filepath.Ext(file.Filename))
	absPath := filepath.Join(ls.Root, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %v", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(absPath)
		return "", err
	}
	return relPath, nil
}

func (ls *LocalStorage) Delete(path string) error {
	return os.Remove(filepath.Join(ls.Root, path))
}

func (ls *LocalStorage) AbsolutePath(path string) string {
	return filepath.Join(ls.Root, path)
}

// URL returns a download link valid for ttl.
func (ls *LocalStorage) URL(path string, ttl time.Duration) string {
	expires := strconv.FormatInt(time.Now().Add(ttl).Unix(), 10)
	return fmt.Sprintf("/files/%s?expires=%s&signature=%s", path, expires, ls.sign(path, expires))
}

// Verify checks a signed URL's signature and expiry.
func (ls *LocalStorage) Verify(path, expires, signature string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return false
	}
	expected := ls.sign(path, expires)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (ls *LocalStorage) sign(path, expires string) string {
	mac := hmac.New(sha256.New, []byte(ls.Secret))
	mac.Write([]byte(path + ":" + expires))
	return hex.EncodeToString(mac.Sum(nil))
}
