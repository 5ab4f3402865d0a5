package triscan

import (
	"sync"
	"testing"
	"time"
)

func TestWorkQueueFIFOOrder(t *testing.T) {
	q := NewWorkQueue[int]()
	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	q.Finish()

	for i := 0; i < 10; i++ {
		item, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop returned ok=false with %d items remaining", 10-i)
		}
		if item != i {
			t.Fatalf("Expected item %d, got %d", i, item)
		}
	}

	if _, ok := q.Pop(); ok {
		t.Fatal("Pop should return ok=false after the queue is drained and finished")
	}
}

func TestWorkQueuePopBlocksUntilPush(t *testing.T) {
	q := NewWorkQueue[string]()

	got := make(chan string, 1)
	go func() {
		item, ok := q.Pop()
		if !ok {
			got <- "<closed>"
			return
		}
		got <- item
	}()

	// Give the consumer time to block on the empty queue.
	time.Sleep(20 * time.Millisecond)
	q.Push("work")

	select {
	case item := <-got:
		if item != "work" {
			t.Fatalf("Expected \"work\", got %q", item)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not wake up after Push")
	}
}

func TestWorkQueueFinishWakesAllWaiters(t *testing.T) {
	q := NewWorkQueue[int]()

	const waiters = 8
	done := make(chan bool, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			_, ok := q.Pop()
			done <- ok
		}()
	}

	// Let every goroutine reach the wait before closing.
	time.Sleep(20 * time.Millisecond)
	q.Finish()

	for i := 0; i < waiters; i++ {
		select {
		case ok := <-done:
			if ok {
				t.Fatal("Pop on a finished empty queue should return ok=false")
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Waiter %d never woke up after Finish", i)
		}
	}
}

func TestWorkQueueDrainsBacklogAfterFinish(t *testing.T) {
	q := NewWorkQueue[int]()
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	q.Finish()

	// Items pushed before Finish must still be delivered.
	count := 0
	for {
		_, ok := q.Pop()
		if !ok {
			break
		}
		count++
	}
	if count != 5 {
		t.Fatalf("Expected to drain 5 items after Finish, got %d", count)
	}
}

func TestWorkQueueConcurrentProducersConsumers(t *testing.T) {
	q := NewWorkQueue[int]()

	const (
		producers        = 4
		itemsPerProducer = 250
	)

	var producerWg sync.WaitGroup
	for p := 0; p < producers; p++ {
		producerWg.Add(1)
		go func(base int) {
			defer producerWg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				q.Push(base*itemsPerProducer + i)
			}
		}(p)
	}

	seen := make(map[int]int)
	var seenMu sync.Mutex
	var consumerWg sync.WaitGroup
	for c := 0; c < 4; c++ {
		consumerWg.Add(1)
		go func() {
			defer consumerWg.Done()
			for {
				item, ok := q.Pop()
				if !ok {
					return
				}
				seenMu.Lock()
				seen[item]++
				seenMu.Unlock()
			}
		}()
	}

	producerWg.Wait()
	q.Finish()

	finished := make(chan struct{})
	go func() {
		consumerWg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Consumers did not terminate after Finish")
	}

	total := producers * itemsPerProducer
	if len(seen) != total {
		t.Fatalf("Expected %d distinct items, got %d", total, len(seen))
	}
	for item, count := range seen {
		if count != 1 {
			t.Fatalf("Item %d was delivered %d times", item, count)
		}
	}
}

func TestWorkQueueLen(t *testing.T) {
	q := NewWorkQueue[int]()
	if q.Len() != 0 {
		t.Fatalf("Expected empty queue, got length %d", q.Len())
	}
	q.Push(1)
	q.Push(2)
	if q.Len() != 2 {
		t.Fatalf("Expected length 2, got %d", q.Len())
	}
	q.Pop()
	if q.Len() != 1 {
		t.Fatalf("Expected length 1 after Pop, got %d", q.Len())
	}
}
