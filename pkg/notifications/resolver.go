package notifications

import "time"

// EventContext describes one (event, recipient) pair being evaluated.
type EventContext struct {
	ServerId           string   `json:"server_id,omitempty" msgpack:"server_id,omitempty" yaml:"server_id"`
	ChannelId          string   `json:"channel_id,omitempty" msgpack:"channel_id,omitempty" yaml:"channel_id"`
	ConversationId     string   `json:"conversation_id,omitempty" msgpack:"conversation_id,omitempty" yaml:"conversation_id"`
	SenderId           string   `json:"sender_id" msgpack:"sender_id" yaml:"sender_id"`
	RecipientId        string   `json:"recipient_id" msgpack:"recipient_id" yaml:"recipient_id"`
	MentionedUserIds   []string `json:"mentioned_user_ids,omitempty" msgpack:"mentioned_user_ids,omitempty" yaml:"mentioned_user_ids"`
	IsReplyToRecipient bool     `json:"is_reply_to_recipient,omitempty" msgpack:"is_reply_to_recipient,omitempty" yaml:"is_reply_to_recipient"`
}

type overrideScope struct {
	id        string
	overrides Overrides
}

// precedence lists the override scopes most specific first.
func precedence(s *Settings, c *EventContext) []overrideScope {
	return []overrideScope{
		{c.ConversationId, s.ConversationOverrides},
		{c.ChannelId, s.ChannelOverrides},
		{c.ServerId, s.ServerOverrides},
	}
}

// GetEffectiveNotificationLevel returns the level of the most specific
// unexpired override matching the context, or the global level.
func GetEffectiveNotificationLevel(s *Settings, c *EventContext, now time.Time) Level {
	for _, scope := range precedence(s, c) {
		if scope.id == "" {
			continue
		}
		o, ok := scope.overrides[scope.id]
		if !ok || !o.Active(now) {
			continue
		}
		return o.Level
	}
	return s.GlobalNotifications
}

// DetermineEventType classifies the event from the recipient's point of view.
// Direct messages win over everything else.
func DetermineEventType(c *EventContext) EventType {
	if c.ConversationId != "" {
		return EventDM
	}
	for _, id := range c.MentionedUserIds {
		if id == c.RecipientId {
			return EventMention
		}
	}
	if c.IsReplyToRecipient {
		return EventThreadReply
	}
	return EventMessage
}
