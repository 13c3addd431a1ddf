package intent

import (
	"github.com/asaskevich/EventBus"
)

// 意图生命周期事件主题
const (
	TopicStateChanged = "intent:state_changed" // (*Intent)
	TopicConfirmed    = "intent:confirmed"     // (*Result)
	TopicFailed       = "intent:failed"        // (*Intent, error)
)

// publisher 事件发布器
//
// 总线为空时所有发布都是空操作，测试和脚本场景无需订阅者。
type publisher struct {
	bus EventBus.Bus
}

func newPublisher(bus EventBus.Bus) *publisher {
	return &publisher{bus: bus}
}

func (p *publisher) stateChanged(in *Intent) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(TopicStateChanged, in)
}

func (p *publisher) confirmed(res *Result) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(TopicConfirmed, res)
}

func (p *publisher) failed(in *Intent, err error) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(TopicFailed, in, err)
}
