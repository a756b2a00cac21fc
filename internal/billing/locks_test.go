package billing

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := newKeyedMutex()
	release := km.lock("10.0.0.5")

	acquired := make(chan struct{})
	go func() {
		r := km.lock("10.0.0.5")
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second locker acquired the key while the first held it")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second locker never acquired the key after release")
	}
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := newKeyedMutex()
	release := km.lock("10.0.0.5")
	defer release()

	acquired := make(chan struct{})
	go func() {
		r := km.lock("10.0.0.6")
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("distinct key blocked behind an unrelated holder")
	}
}

func TestKeyedMutex_RemovesIdleEntries(t *testing.T) {
	km := newKeyedMutex()
	release := km.lock("10.0.0.5")
	release()

	km.mu.Lock()
	n := len(km.keys)
	km.mu.Unlock()
	if n != 0 {
		t.Errorf("idle entries = %d, want 0", n)
	}
}

func TestApplyLease_ConcurrentSameAddressConverges(t *testing.T) {
	device := newFakeDevice()
	engine := testEngine()
	lease := testLease()
	lease.ExpiresAt = timePtr(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.ApplyLease(context.Background(), device, lease); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("ApplyLease() error = %v", err)
	}

	rows := device.lists[pathScheduler]
	if len(rows) != 1 {
		t.Fatalf("scheduler rows = %d, want 1 (concurrent applies stacked jobs)", len(rows))
	}
	if rows[0]["name"] != "expire-10-0-0-5" {
		t.Errorf("job name = %q, want expire-10-0-0-5", rows[0]["name"])
	}

	// Every apply after the first replaces the previous job.
	if got := len(device.mutationsTo(device.removed, pathScheduler)); got != workers-1 {
		t.Errorf("scheduler removes = %d, want %d", got, workers-1)
	}
}
