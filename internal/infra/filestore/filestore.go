package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("filestore: unsupported image type")
	ErrTooLarge        = errors.New("filestore: image too large")
	ErrDecode          = errors.New("filestore: failed to decode image")
	ErrWrite           = errors.New("filestore: failed to write file")
)

const (
	jpegQuality = 85

	// MaxPixels предел width*height, проверяется по заголовку до декодирования
	MaxPixels = 40_000_000
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Stored результат сохранения изображения
type Stored struct {
	FileName    string
	ThumbName   string
	ContentType string
	Width       int
	Height      int
}

// Store изображения галереи на локальном диске, рядом с оригиналом кладется превью
type Store struct {
	dir        string
	thumbWidth int
	maxBytes   int64
}

func New(dir string, thumbWidth int, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrWrite, dir, err)
	}
	return &Store{dir: dir, thumbWidth: thumbWidth, maxBytes: maxBytes}, nil
}

// Dir каталог, из которого раздаются файлы
func (s *Store) Dir() string {
	return s.dir
}

// Save проверяет тип, сохраняет оригинал и превью шириной thumbWidth
func (s *Store) Save(data []byte) (*Stored, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	bounds := img.Bounds()

	thumb := img
	if bounds.Dx() > s.thumbWidth {
		thumb = imaging.Resize(img, s.thumbWidth, 0, imaging.Lanczos)
	}

	format := imaging.PNG
	if contentType == "image/jpeg" {
		format = imaging.JPEG
	}
	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode thumbnail: %v", ErrWrite, err)
	}

	base := uuid.NewString()
	stored := &Stored{
		FileName:    base + ext,
		ThumbName:   base + "_thumb" + ext,
		ContentType: contentType,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}

	if err := os.WriteFile(filepath.Join(s.dir, stored.FileName), data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, stored.ThumbName), thumbBuf.Bytes(), 0o644); err != nil {
		_ = os.Remove(filepath.Join(s.dir, stored.FileName))
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return stored, nil
}

// Delete удаляет файлы. Отсутствующий файл не считается ошибкой.
func (s *Store) Delete(names ...string) error {
	for _, name := range names {
		err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: remove %s: %v", ErrWrite, name, err)
		}
	}
	return nil
}
