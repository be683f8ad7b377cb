package beep

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/hazadus/soundwave/internal/audio"
	"github.com/hazadus/soundwave/internal/s3"
	"github.com/hazadus/soundwave/internal/streaming"
)

// Presigner выдает временную HTTP-ссылку на объект S3
type Presigner interface {
	PresignURL(bucket, key string) (string, error)
}

// source - разрешенный локатор: локальный файл или HTTP-адрес
type source struct {
	path string
	url  string
	ext  string
}

// resolveSource разбирает локатор трека
func resolveSource(locator, mediaDir string, presigner Presigner) (source, error) {
	switch {
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		u, err := url.Parse(locator)
		if err != nil {
			return source{}, fmt.Errorf("неверный URL %q: %w", locator, err)
		}
		return checkFormat(source{url: locator, ext: strings.ToLower(path.Ext(u.Path))})

	case strings.HasPrefix(locator, "s3://"):
		bucket, key, err := s3.ParseLocator(locator)
		if err != nil {
			return source{}, err
		}
		if presigner == nil {
			return source{}, fmt.Errorf("%w: %s", audio.ErrS3NotConfigured, locator)
		}
		signed, err := presigner.PresignURL(bucket, key)
		if err != nil {
			return source{}, fmt.Errorf("ошибка подписи ссылки S3: %w", err)
		}
		return checkFormat(source{url: signed, ext: strings.ToLower(path.Ext(key))})

	case strings.Contains(locator, "://"):
		return source{}, fmt.Errorf("%w: %s", audio.ErrUnsupportedSource, locator)
	}

	p := locator
	if !filepath.IsAbs(p) && mediaDir != "" {
		p = filepath.Join(mediaDir, p)
	}
	if _, err := os.Stat(p); err != nil {
		return source{}, fmt.Errorf("файл недоступен: %w", err)
	}
	return checkFormat(source{path: p, ext: strings.ToLower(filepath.Ext(p))})
}

func checkFormat(s source) (source, error) {
	switch s.ext {
	case ".mp3", ".wav":
		return s, nil
	}
	return source{}, fmt.Errorf("%w: %q", audio.ErrUnsupportedFormat, s.ext)
}

// open открывает поток данных источника
func (s source) open(ctx context.Context, bufferSize int) (io.ReadCloser, error) {
	if s.url != "" {
		return streaming.NewReader(ctx, s.url, bufferSize)
	}
	return os.Open(s.path)
}

// decode выбирает декодер по расширению
func decode(ext string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	if ext == ".wav" {
		return wav.Decode(rc)
	}
	return mp3.Decode(rc)
}
