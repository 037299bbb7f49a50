package archon

import (
	"fmt"
	"testing"
)

type testEvent struct {
	Value int
}

func TestEventSinkPublishDrainOrder(t *testing.T) {
	sink := NewEventSink[testEvent](8)
	sink.Publish(testEvent{Value: 1})
	sink.Publish(testEvent{Value: 2})
	sink.Publish(testEvent{Value: 3})

	var got []int
	sink.Drain(func(e testEvent) bool {
		got = append(got, e.Value)
		return true
	})
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected [1 2 3] in order, got %v", got)
	}
	if sink.Len() != 0 {
		t.Fatalf("expected sink drained, got len %d", sink.Len())
	}
}

func TestEventSinkDrainEarlyStop(t *testing.T) {
	sink := NewEventSink[testEvent](8)
	sink.Publish(testEvent{Value: 1})
	sink.Publish(testEvent{Value: 2})
	sink.Publish(testEvent{Value: 3})

	count := 0
	sink.Drain(func(e testEvent) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Fatalf("expected drain to stop after 2, stopped after %d", count)
	}
	if sink.Len() != 1 {
		t.Fatalf("expected 1 event left undrained, got %d", sink.Len())
	}

	var remaining []int
	sink.Drain(func(e testEvent) bool {
		remaining = append(remaining, e.Value)
		return true
	})
	if len(remaining) != 1 || remaining[0] != 3 {
		t.Fatalf("expected remaining [3], got %v", remaining)
	}
}

func TestEventSinkOverwritesOldestWhenFull(t *testing.T) {
	sink := NewEventSink[testEvent](2)
	sink.Publish(testEvent{Value: 1})
	sink.Publish(testEvent{Value: 2})
	sink.Publish(testEvent{Value: 3}) // overwrites 1

	var got []int
	sink.Drain(func(e testEvent) bool {
		got = append(got, e.Value)
		return true
	})
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("expected [2 3], got %v", got)
	}
}

func TestEventSinkDrainEmpty(t *testing.T) {
	sink := NewEventSink[testEvent](4)
	called := false
	sink.Drain(func(e testEvent) bool {
		called = true
		return true
	})
	if called {
		t.Fatal("expected no events on empty sink")
	}
}

func BenchmarkEventSinkPublish(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dK", size/1000), func(b *testing.B) {
			sink := NewEventSink[testEvent](size)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < size; i++ {
				sink.Publish(testEvent{Value: i})
			}
		})
	}
}
