package notifications

import "fmt"

const (
	maxBodyLength = 100
	ellipsis      = "..."
)

// PayloadData is what the delivery layer knows about the event being announced.
type PayloadData struct {
	SenderName      string `json:"sender_name" msgpack:"sender_name" yaml:"sender_name"`
	SenderAvatarUrl string `json:"sender_avatar_url,omitempty" msgpack:"sender_avatar_url,omitempty" yaml:"sender_avatar_url"`
	MessageContent  string `json:"message_content" msgpack:"message_content" yaml:"message_content"`
	MessageId       string `json:"message_id,omitempty" msgpack:"message_id,omitempty" yaml:"message_id"`
	ChannelName     string `json:"channel_name,omitempty" msgpack:"channel_name,omitempty" yaml:"channel_name"`
	ChannelId       string `json:"channel_id,omitempty" msgpack:"channel_id,omitempty" yaml:"channel_id"`
	ServerName      string `json:"server_name,omitempty" msgpack:"server_name,omitempty" yaml:"server_name"`
	ServerId        string `json:"server_id,omitempty" msgpack:"server_id,omitempty" yaml:"server_id"`
	ConversationId  string `json:"conversation_id,omitempty" msgpack:"conversation_id,omitempty" yaml:"conversation_id"`
}

type Payload struct {
	Title string `json:"title" msgpack:"title" yaml:"title"`
	Body  string `json:"body" msgpack:"body" yaml:"body"`
	Url   string `json:"url" msgpack:"url" yaml:"url"`
	Icon  string `json:"icon,omitempty" msgpack:"icon,omitempty" yaml:"icon,omitempty"`
}

// TruncateBody shortens content to at most 100 characters, ending with "..."
// when anything was cut.
func TruncateBody(content string) string {
	r := []rune(content)
	if len(r) <= maxBodyLength {
		return content
	}
	return string(r[:maxBodyLength-len(ellipsis)]) + ellipsis
}

func channelUrl(d *PayloadData) string {
	if d.ServerId == "" || d.ChannelId == "" {
		return "/"
	}
	return fmt.Sprintf("/servers/%s/channels/%s", d.ServerId, d.ChannelId)
}

// BuildNotificationPayload renders the title, body, link and icon shown for an event.
func BuildNotificationPayload(eventType EventType, d PayloadData) Payload {
	body := TruncateBody(d.MessageContent)
	p := Payload{Body: body, Icon: d.SenderAvatarUrl}

	switch eventType {
	case EventDM:
		p.Title = d.SenderName
		p.Url = "/dm/" + d.ConversationId

	case EventMention:
		if d.ChannelName != "" {
			p.Title = fmt.Sprintf("%s mentioned you in #%s", d.SenderName, d.ChannelName)
		} else {
			p.Title = d.SenderName + " mentioned you"
		}
		p.Url = channelUrl(&d)
		if p.Url != "/" && d.MessageId != "" {
			p.Url += "?message=" + d.MessageId
		}

	case EventThreadReply:
		if d.ChannelName != "" {
			p.Title = fmt.Sprintf("%s replied in #%s", d.SenderName, d.ChannelName)
		} else {
			p.Title = d.SenderName + " replied"
		}
		p.Url = channelUrl(&d)

	default:
		switch {
		case d.ChannelName != "" && d.ServerName != "":
			p.Title = fmt.Sprintf("#%s in %s", d.ChannelName, d.ServerName)
		case d.ChannelName != "":
			p.Title = "#" + d.ChannelName
		default:
			p.Title = d.SenderName
		}
		p.Body = d.SenderName + ": " + body
		p.Url = channelUrl(&d)
	}

	return p
}
