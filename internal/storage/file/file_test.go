package file_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage/file"

	"testing"
)

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "static", "uploads")

	provider, err := file.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Creates the upload directory", func(t *testing.T) {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatal(err)
		}

		if !info.IsDir() {
			t.Error("not a directory")
		}
	})

	t.Run("Put and get an upload", func(t *testing.T) {
		if err := provider.Put(context.Background(), "photo.png", []byte("first")); err != nil {
			t.Fatal(err)
		}

		buf, err := provider.Get(context.Background(), "photo.png")
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(buf, []byte("first")) {
			t.Error("upload data doesn't match")
		}
	})

	t.Run("Overwrites an upload with the same name", func(t *testing.T) {
		if err := provider.Put(context.Background(), "photo.png", []byte("second")); err != nil {
			t.Fatal(err)
		}

		buf, _ := provider.Get(context.Background(), "photo.png")
		if string(buf) != "second" {
			t.Errorf("wrong data %s", buf)
		}
	})

	t.Run("Strips directories from the name", func(t *testing.T) {
		if err := provider.Put(context.Background(), "../../escape.png", []byte("data")); err != nil {
			t.Fatal(err)
		}

		if _, err := os.Stat(filepath.Join(dir, "escape.png")); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("Returns error on an empty path", func(t *testing.T) {
		_, err := file.New("")
		if err == nil {
			t.FailNow()
		}
	})

	t.Run("Returns error on an invalid name", func(t *testing.T) {
		err := provider.Put(context.Background(), "", []byte("data"))
		if err != storage.ErrInvalidKey {
			t.Errorf("wrong error %v", err)
		}
	})

	t.Run("Returns error on a nonexistant upload", func(t *testing.T) {
		_, err := provider.Get(context.Background(), "nonexistant.png")
		if err != storage.ErrNotFound {
			t.Errorf("wrong error %v", err)
		}
	})
}
