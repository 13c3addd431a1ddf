package intent

import "sync"

// TriggerLatch 一次性触发闩锁
//
// 保证同一局游戏的结束事件只触发一次提交，即使 UI 层
// 重复上报。Arm 重置闩锁开始新的一局，Fire 在每次
// Arm 之后至多执行一次回调。
type TriggerLatch struct {
	mu    sync.Mutex
	fired bool
}

// NewTriggerLatch 创建闩锁（初始为已触发态，需 Arm 后才可 Fire）
func NewTriggerLatch() *TriggerLatch {
	return &TriggerLatch{fired: true}
}

// Arm 重置闩锁，允许下一次触发
func (l *TriggerLatch) Arm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fired = false
}

// Fire 触发回调
//
// 返回 true 表示本次调用执行了回调；闩锁未装载或已触发时
// 返回 false 且不执行。
func (l *TriggerLatch) Fire(fn func()) bool {
	l.mu.Lock()
	if l.fired {
		l.mu.Unlock()
		return false
	}
	l.fired = true
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// Fired 闩锁是否已触发
func (l *TriggerLatch) Fired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fired
}
