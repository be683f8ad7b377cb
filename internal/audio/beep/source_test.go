package beep

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazadus/soundwave/internal/audio"
	"github.com/hazadus/soundwave/internal/s3"
)

type fakePresigner struct {
	bucket, key string
	err         error
}

func (f *fakePresigner) PresignURL(bucket, key string) (string, error) {
	f.bucket, f.key = bucket, key
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.example.com/" + bucket + "/" + key + "?X-Amz-Signature=abc", nil
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestResolveSourceLocalFiles(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "abs.mp3")
	writeFile(t, dir, "audio/Song.WAV")
	writeFile(t, dir, "cover.jpg")

	tests := []struct {
		name     string
		locator  string
		wantPath string
		wantExt  string
		wantErr  error
	}{
		{"абсолютный путь", abs, abs, ".mp3", nil},
		{"относительный путь", "audio/Song.WAV", filepath.Join(dir, "audio/Song.WAV"), ".wav", nil},
		{"неподдерживаемый формат", "cover.jpg", "", "", audio.ErrUnsupportedFormat},
		{"неизвестная схема", "ftp://host/track.mp3", "", "", audio.ErrUnsupportedSource},
	}

	for _, test := range tests {
		src, err := resolveSource(test.locator, dir, nil)
		if test.wantErr != nil {
			if !errors.Is(err, test.wantErr) {
				t.Errorf("%s: ожидалась %v, получено %v", test.name, test.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: неожиданная ошибка %v", test.name, err)
			continue
		}
		if src.path != test.wantPath || src.ext != test.wantExt {
			t.Errorf("%s: получено %+v", test.name, src)
		}
	}
}

func TestResolveSourceMissingFile(t *testing.T) {
	_, err := resolveSource("missing.mp3", t.TempDir(), nil)
	if err == nil || !strings.Contains(err.Error(), "файл недоступен") {
		t.Errorf("Ожидалась ошибка недоступного файла, получено %v", err)
	}
}

func TestResolveSourceHTTP(t *testing.T) {
	src, err := resolveSource("https://cdn.example.com/music/track.mp3?token=1", "", nil)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if src.url == "" || src.ext != ".mp3" {
		t.Errorf("Неожиданный источник: %+v", src)
	}

	if _, err := resolveSource("https://cdn.example.com/music/track.ogg", "", nil); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("Ожидалась ErrUnsupportedFormat, получено %v", err)
	}
}

func TestResolveSourceS3(t *testing.T) {
	if _, err := resolveSource("s3://music/track.mp3", "", nil); !errors.Is(err, audio.ErrS3NotConfigured) {
		t.Errorf("Ожидалась ErrS3NotConfigured, получено %v", err)
	}

	if _, err := resolveSource("s3://music", "", &fakePresigner{}); !errors.Is(err, s3.ErrInvalidLocator) {
		t.Errorf("Ожидалась ErrInvalidLocator, получено %v", err)
	}

	presigner := &fakePresigner{}
	src, err := resolveSource("s3://music/albums/track.wav", "", presigner)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if presigner.bucket != "music" || presigner.key != "albums/track.wav" {
		t.Errorf("Неверные bucket/key: %s/%s", presigner.bucket, presigner.key)
	}
	if !strings.HasPrefix(src.url, "https://storage.example.com/music/") || src.ext != ".wav" {
		t.Errorf("Неожиданный источник: %+v", src)
	}

	failing := &fakePresigner{err: errors.New("нет доступа")}
	if _, err := resolveSource("s3://music/track.mp3", "", failing); err == nil {
		t.Error("Ожидалась ошибка подписи")
	}
}
