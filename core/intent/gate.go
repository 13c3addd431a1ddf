package intent

import "sync"

// PaymentGate 入场支付门禁
//
// 记录哪些账户已支付入场费。门禁在支付意图确认后打开，
// 在成绩提交意图确认后关闭，强制"一次支付一局"的节奏。
// 仅为本地会话状态，链上余额不受其影响。
type PaymentGate struct {
	mu   sync.RWMutex
	paid map[string]bool
}

// NewPaymentGate 创建入场门禁
func NewPaymentGate() *PaymentGate {
	return &PaymentGate{
		paid: make(map[string]bool),
	}
}

// Paid 账户门禁是否已开
func (g *PaymentGate) Paid(account string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paid[account]
}

// Open 打开账户门禁
func (g *PaymentGate) Open(account string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paid[account] = true
}

// Close 关闭账户门禁
func (g *PaymentGate) Close(account string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.paid, account)
}
