package jobs

import (
	"sync"
	"testing"
)

// TestCancelFlagLifecycle verifies reset/set/is-set transitions.
func TestCancelFlagLifecycle(t *testing.T) {
	flag := NewCancelFlag()
	if flag.IsSet() {
		t.Fatal("new flag should not be set")
	}

	flag.Set()
	if !flag.IsSet() {
		t.Fatal("expected set after Set()")
	}

	flag.Set()
	if !flag.IsSet() {
		t.Fatal("Set must be idempotent")
	}

	flag.Reset()
	if flag.IsSet() {
		t.Fatal("expected clear after Reset()")
	}
}

// TestCancelFlagConcurrentSetters verifies cross-goroutine visibility.
func TestCancelFlagConcurrentSetters(t *testing.T) {
	flag := NewCancelFlag()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flag.Set()
		}()
	}
	wg.Wait()

	if !flag.IsSet() {
		t.Fatal("expected set after concurrent Set calls")
	}
}
