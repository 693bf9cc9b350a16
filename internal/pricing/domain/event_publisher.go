package domain

import "context"

// EventPublisher 领域事件发布接口。
// 事务内发布走 PublishInTx, 由 Outbox 实现保证与业务写入的原子性。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
