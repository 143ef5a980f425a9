package notifications

import "fmt"

type Level string

const (
	LevelAll      Level = "all"
	LevelMentions Level = "mentions"
	LevelNothing  Level = "nothing"
)

func (l Level) Valid() bool {
	switch l {
	case LevelAll, LevelMentions, LevelNothing:
		return true
	default:
		return false
	}
}

func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return l, nil
}

type EventType string

const (
	EventDM          EventType = "dm"
	EventMention     EventType = "mention"
	EventThreadReply EventType = "thread_reply"
	EventMessage     EventType = "message"
)

// IsEventAllowedByLevel reports whether an effective level lets an event
// through. Unknown levels never allow anything.
func IsEventAllowedByLevel(level Level, eventType EventType) bool {
	switch level {
	case LevelAll:
		return true
	case LevelMentions:
		switch eventType {
		case EventDM, EventMention, EventThreadReply:
			return true
		default:
			return false
		}
	case LevelNothing:
		return false
	default:
		return false
	}
}
