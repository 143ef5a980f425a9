package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/meower-media/notifications/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

var (
	ErrEmptyPacket     = errors.New("empty packet")
	ErrUnknownOpCode   = errors.New("unknown op code")
	ErrMalformedPacket = errors.New("malformed packet")
)

// EncodeMessageEvent builds the packet Listen expects on the events channel.
func EncodeMessageEvent(ev *MessageEvent) ([]byte, error) {
	marshaledPacket, err := msgpack.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return append(marshaledPacket, utils.EvOpMessageCreated), nil
}

// DecodeMessageEvent parses a packet from the events channel.
func DecodeMessageEvent(packet []byte) (*MessageEvent, error) {
	body, op, ok := utils.SplitPacket(packet)
	if !ok {
		return nil, ErrEmptyPacket
	}
	if op != utils.EvOpMessageCreated {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOpCode, op)
	}
	var ev MessageEvent
	if err := msgpack.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPacket, err)
	}
	return &ev, nil
}

// Listen dispatches every message event received on msgs until ctx is done
// or msgs is closed. Bad packets are logged and skipped.
func (d *Dispatcher) Listen(ctx context.Context, msgs <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			d.log.Info("dispatcher stopping")
			return
		case msg, ok := <-msgs:
			if !ok {
				d.log.Info("events channel closed")
				return
			}
			d.handle(ctx, []byte(msg.Payload))
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, packet []byte) {
	ev, err := DecodeMessageEvent(packet)
	if err != nil {
		d.log.Warn("dropping event packet", zap.Error(err))
		return
	}
	deliveries, err := d.Dispatch(ctx, ev)
	if err != nil {
		d.log.Error("dispatch failed", zap.String("message", ev.MessageId), zap.Error(err))
		return
	}

	sent := 0
	for _, delivery := range deliveries {
		if delivery.Decision.ShouldNotify {
			sent++
		}
	}
	d.log.Debug("message dispatched",
		zap.String("message", ev.MessageId),
		zap.Int("recipients", len(deliveries)),
		zap.Int("notified", sent),
	)
}
