package storage

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEngineInit(t *testing.T) {
	e := NewEngine()
	if e.Ready() {
		t.Fatal("Expected a new engine not to be ready")
	}
	if err := e.Init(); err != nil {
		t.Fatalf("Init() returned an unexpected error: %v", err)
	}
	if !e.Ready() {
		t.Error("Expected engine to be ready after Init")
	}
	if e.Version() == "" {
		t.Error("Expected a sqlite version after Init")
	}
	if err := e.Init(); err != nil {
		t.Errorf("Expected a second Init to be a no-op, got %v", err)
	}
}

func TestEngineInitLoadsOnceUnderConcurrency(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	e := &Engine{load: func() (string, error) {
		loads.Add(1)
		<-release
		return "test", nil
	}}

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- e.Init()
		}()
	}

	// Let the callers pile up behind the first attempt.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Init() returned an unexpected error: %v", err)
		}
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("Expected runtime to load once, loaded %d times", n)
	}
}

func TestEngineInitFailureIsRetriable(t *testing.T) {
	fail := true
	e := &Engine{load: func() (string, error) {
		if fail {
			return "", errors.New("wasm missing")
		}
		return "test", nil
	}}

	err := e.Init()
	if !errors.Is(err, ErrInit) {
		t.Fatalf("Expected ErrInit, got %v", err)
	}
	if e.Ready() {
		t.Fatal("Expected engine not to be ready after a failed Init")
	}
	if _, err := e.Build(sampleMeta(), nil, nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from Build, got %v", err)
	}

	fail = false
	if err := e.Init(); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if !e.Ready() {
		t.Error("Expected engine to be ready after a successful retry")
	}
}
