package platform

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSingleInstanceActivation(t *testing.T) {
	name := fmt.Sprintf("chronos-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	defer guard.Release()

	if _, err := AcquireSingleInstance(name); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second AcquireSingleInstance error = %v, want ErrAlreadyRunning", err)
	}

	activated := make(chan struct{}, 1)
	served := make(chan struct{})
	go func() {
		guard.Serve(func() { activated <- struct{}{} })
		close(served)
	}()

	if err := ActivateRunningInstance(name); err != nil {
		t.Fatalf("ActivateRunningInstance error: %v", err)
	}
	select {
	case <-activated:
	case <-time.After(5 * time.Second):
		t.Fatal("activation not delivered")
	}

	if err := guard.Release(); err != nil {
		t.Fatalf("Release error: %v", err)
	}
	select {
	case <-served:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Release")
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("second Release error: %v", err)
	}
}

func TestPortFromNameIsStable(t *testing.T) {
	t.Parallel()
	first, second := portFromName("Chronos"), portFromName("Chronos")
	if first != second || first < 20000 || first > 39999 {
		t.Fatalf("portFromName = %d and %d", first, second)
	}
}
