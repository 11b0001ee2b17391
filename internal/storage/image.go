package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// ImageStore 保存上传图片并返回对外引用
type ImageStore interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

// LocalImageStore 写入本地目录，引用形如 <urlPrefix>/<folder>/<uuid><ext>
type LocalImageStore struct {
	dir       string
	urlPrefix string
}

func NewLocalImageStore(dir, urlPrefix string) *LocalImageStore {
	return &LocalImageStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalImageStore) Save(_ context.Context, folder, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedImage
	}
	target := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + ext
	f, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return path.Join(s.urlPrefix, folder, name), nil
}
