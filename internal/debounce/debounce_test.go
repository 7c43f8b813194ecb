package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func newRecorder() *recorder { return &recorder{done: make(chan struct{}, 16)} }

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestBurstRunsOnceWithLastArguments(t *testing.T) {
	rec := newRecorder()
	d := Func(rec.record, 40*time.Millisecond)

	for _, q := range []string{"h", "he", "hel", "hell", "hello"} {
		d.Call(q)
	}

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, []string{"hello"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestSeparatedCallsEachRun(t *testing.T) {
	rec := newRecorder()
	d := Func(rec.record, 10*time.Millisecond)

	d.Call("a")
	<-rec.done
	d.Call("b")
	<-rec.done

	assert.Equal(t, []string{"a", "b"}, rec.snapshot())
}

func TestStopDropsPendingCall(t *testing.T) {
	rec := newRecorder()
	d := Func(rec.record, 20*time.Millisecond)

	d.Call("x")
	d.Stop()
	d.Call("y")
	time.Sleep(80 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestFlushRunsImmediately(t *testing.T) {
	rec := newRecorder()
	d := Func(rec.record, time.Hour)

	d.Call("now")
	require.True(t, d.Flush())
	assert.False(t, d.Flush())
	assert.Equal(t, []string{"now"}, rec.snapshot())
}

func TestValueSettlesAfterQuietPeriod(t *testing.T) {
	v := NewValue("", 30*time.Millisecond)
	defer v.Stop()

	v.Set("s")
	v.Set("se")
	v.Set("search")
	assert.Equal(t, "", v.Get())

	assert.Eventually(t, func() bool { return v.Get() == "search" }, time.Second, 5*time.Millisecond)
}
