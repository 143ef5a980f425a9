package utils

// Op codes are appended as the last byte of every msgpack packet published
// on Redis, so listeners can tell packets apart before decoding them.

const (
	EvOpMessageCreated uint8 = 0 // inbound: a message-like event needs recipients evaluated

	EvOpNotify uint8 = 1 // outbound: a recipient should be notified

	EvOpUpdateNotificationSettings uint8 = 2 // outbound: a user's settings changed
)

// SplitPacket separates a packet body from its trailing op code.
func SplitPacket(packet []byte) ([]byte, uint8, bool) {
	if len(packet) == 0 {
		return nil, 0, false
	}
	return packet[:len(packet)-1], packet[len(packet)-1], true
}
