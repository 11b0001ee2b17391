package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/d60-Lab/socialgram/internal/storage"
)

// Upload 一个待保存的上传文件
type Upload struct {
	Filename string
	Body     io.Reader
}

var ErrUnsupportedImage = &Error{KindValidation, "Por favor, envie apenas png ou jpg!"}

func saveImage(ctx context.Context, images storage.ImageStore, folder string, up *Upload) (string, error) {
	ref, err := images.Save(ctx, folder, up.Filename, up.Body)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return "", ErrUnsupportedImage
		}
		return "", fmt.Errorf("save %s image: %w", folder, err)
	}
	return ref, nil
}
