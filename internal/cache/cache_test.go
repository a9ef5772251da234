package cache_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache/memory"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache/mock"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing/test"
	"go.uber.org/zap"
)

var errBroken = errors.New("broken")

var mockLoaderFunc cache.LoaderFunc = func(ctx context.Context, key string) (data []byte, err error) {
	if key == "loaderror" {
		return nil, fmt.Errorf("loaderror")
	}

	return []byte("loaded " + key), nil
}

func TestAuto(t *testing.T) {
	log := logger.New(zap.ErrorLevel)
	defer log.Sync()

	provider := &mock.Provider{
		Entries:   map[string][]byte{"hit": []byte("cached")},
		GetErrors: map[string]error{"broken": errBroken},
		SetErrors: map[string]error{"seterror": fmt.Errorf("seterror")},
	}

	auto := &cache.Auto{
		Tracer:   test.Tracer(log),
		Provider: provider,
		Loader:   mockLoaderFunc,
	}

	tests := []struct {
		Key           string
		ExpectedData  string
		ExpectedError error
	}{
		{"hit", "cached", nil},
		{"miss", "loaded miss", nil},
		{"loaderror", "", fmt.Errorf("loaderror")},
		{"seterror", "", fmt.Errorf("seterror")},
		{"broken", "", errBroken},
	}

	for _, test := range tests {
		data, err := auto.Get(context.Background(), test.Key)
		if err != nil {
			if test.ExpectedError == nil {
				t.Errorf("%s: %s", test.Key, err)
				continue
			}

			if test.ExpectedError.Error() != err.Error() {
				t.Errorf("%s: wrong error: %s", test.Key, err)
			}

			continue
		}

		if test.ExpectedError != nil {
			t.Errorf("%s: expected error %s", test.Key, test.ExpectedError)
			continue
		}

		if string(data) != test.ExpectedData {
			t.Errorf("%s: wrong data %s", test.Key, data)
		}
	}

	// Only the successful load is stored
	if sets := provider.Sets(); !reflect.DeepEqual(sets, []string{"miss"}) {
		t.Errorf("wrong keys set %v", sets)
	}
}

func TestAutoLoad(t *testing.T) {
	log := logger.New(zap.ErrorLevel)
	defer log.Sync()

	provider := memory.New(0)
	auto := &cache.Auto{
		Tracer:   test.Tracer(log),
		Provider: provider,
	}

	// Without a loader a miss is returned as is
	if _, err := auto.Get(context.Background(), "key"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("wrong error %v", err)
	}

	data, err := auto.Load(context.Background(), "key", func(ctx context.Context, key string) ([]byte, error) {
		return []byte("result"), nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "result" {
		t.Fatalf("wrong data %s", data)
	}

	// Now a hit, the loader isn't called
	data, err = auto.Load(context.Background(), "key", func(ctx context.Context, key string) ([]byte, error) {
		t.Error("loader called on a hit")
		return nil, nil
	})
	if err != nil || string(data) != "result" {
		t.Fatalf("wrong result %s %v", data, err)
	}
}

func TestAutoCollapsesConcurrentLoads(t *testing.T) {
	log := logger.New(zap.ErrorLevel)
	defer log.Sync()

	var calls int32
	release := make(chan struct{})

	auto := &cache.Auto{
		Tracer:   test.Tracer(log),
		Provider: memory.New(0),
		Loader: func(ctx context.Context, key string) ([]byte, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return []byte("loaded"), nil
		},
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if data, err := auto.Get(context.Background(), "key"); err != nil || string(data) != "loaded" {
				t.Errorf("wrong result %s %v", data, err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	// Goroutines scheduled after the first load finished hit the cache instead
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("loader called %d times", n)
	}
}

func TestAutoDoesNotCacheErrors(t *testing.T) {
	log := logger.New(zap.ErrorLevel)
	defer log.Sync()

	calls := 0
	auto := &cache.Auto{
		Tracer:   test.Tracer(log),
		Provider: memory.New(10),
		Loader: func(ctx context.Context, key string) ([]byte, error) {
			calls++
			if calls == 1 {
				return nil, fmt.Errorf("temporary failure")
			}

			return []byte("loaded"), nil
		},
	}

	if _, err := auto.Get(context.Background(), "key"); err == nil {
		t.Fatal("expected an error")
	}

	for i := 0; i < 2; i++ {
		data, err := auto.Get(context.Background(), "key")
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "loaded" {
			t.Fatalf("wrong data %s", data)
		}
	}

	if calls != 2 {
		t.Fatalf("loader called %d times", calls)
	}
}
