package intent

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerLatch(t *testing.T) {
	latch := NewTriggerLatch()

	// 未装载时不触发
	assert.True(t, latch.Fired())
	assert.False(t, latch.Fire(func() { t.Error("callback ran before Arm") }))

	latch.Arm()
	assert.False(t, latch.Fired())

	var calls int
	assert.True(t, latch.Fire(func() { calls++ }))
	assert.Equal(t, 1, calls)
	assert.True(t, latch.Fired())

	// 重复上报被吞掉
	assert.False(t, latch.Fire(func() { calls++ }))
	assert.Equal(t, 1, calls)

	// 新的一局重新装载
	latch.Arm()
	assert.True(t, latch.Fire(func() { calls++ }))
	assert.Equal(t, 2, calls)
}

func TestTriggerLatch_ConcurrentFire(t *testing.T) {
	latch := NewTriggerLatch()
	latch.Arm()

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			latch.Fire(func() { calls.Add(1) })
		}()
	}
	wg.Wait()

	// 并发触发也只执行一次
	assert.Equal(t, int64(1), calls.Load())
}

func TestPaymentGate(t *testing.T) {
	gate := NewPaymentGate()

	assert.False(t, gate.Paid(testAccount))

	gate.Open(testAccount)
	assert.True(t, gate.Paid(testAccount))
	assert.False(t, gate.Paid(testAccount2))

	gate.Close(testAccount)
	assert.False(t, gate.Paid(testAccount))
}
