package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"crabdb/pkg/metrics"
)

func TestExecuteRunsJob(t *testing.T) {
	p := New(2, nil)
	done := make(chan struct{})
	p.Execute(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
	p.Join()
}

func TestFIFOOrder(t *testing.T) {
	p := New(1, nil) // single worker makes dequeue order observable directly
	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		i := i
		p.Execute(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, want %d", i, v, i)
		}
	}
	p.Join()
}

func TestJoinWaitsForQueuedJobs(t *testing.T) {
	p := New(4, nil)
	var count atomic.Int32
	for i := 0; i < 50; i++ {
		p.Execute(func() { count.Add(1) })
	}
	p.Join()

	if got := count.Load(); got != 50 {
		t.Fatalf("count = %d, want 50", got)
	}
}

func TestPoolWithMetricsDoesNotPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	p := New(2, m)
	done := make(chan struct{})
	p.Execute(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
	p.Join()
}

func TestJobPanicDoesNotKillPool(t *testing.T) {
	p := New(2, nil)
	p.Execute(func() { panic("boom") })

	done := make(chan struct{})
	p.Execute(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool stopped processing after a panic")
	}
	p.Join()
}
