package v0_rest

import (
	"github.com/meower-media/notifications/pkg/notifications"
)

type UpdateNotificationSettingsReq struct {
	Global  *string `json:"global" validate:"omitempty,oneof=all mentions nothing"`
	Desktop *bool   `json:"desktop"`
	Push    *bool   `json:"push"`
	Sound   *bool   `json:"sound"`

	// An empty string clears the bound.
	QuietHoursStart *string `json:"quiet_hours_start" validate:"omitempty,datetime=15:04|len=0"`
	QuietHoursEnd   *string `json:"quiet_hours_end" validate:"omitempty,datetime=15:04|len=0"`
	Timezone        *string `json:"timezone" validate:"omitempty,max=64"`
}

func (req *UpdateNotificationSettingsReq) patch() notifications.Patch {
	p := notifications.Patch{
		DesktopNotifications: req.Desktop,
		PushNotifications:    req.Push,
		NotificationSound:    req.Sound,
		QuietHoursStart:      req.QuietHoursStart,
		QuietHoursEnd:        req.QuietHoursEnd,
		Timezone:             req.Timezone,
	}
	if req.Global != nil {
		level := notifications.Level(*req.Global)
		p.GlobalNotifications = &level
	}
	return p
}

type MuteReq struct {
	Level    string `json:"level" validate:"omitempty,oneof=all mentions nothing"`
	Duration string `json:"duration" validate:"required,oneof=15m 1h 8h 24h forever"`
}

type EvaluateReq struct {
	ServerId           string   `json:"server_id" validate:"max=64"`
	ChannelId          string   `json:"channel_id" validate:"max=64"`
	ConversationId     string   `json:"conversation_id" validate:"max=64"`
	SenderId           string   `json:"sender_id" validate:"required,max=64"`
	RecipientId        string   `json:"recipient_id" validate:"required,max=64"`
	MentionedUserIds   []string `json:"mentioned_user_ids" validate:"max=1000"`
	IsReplyToRecipient bool     `json:"is_reply_to_recipient"`
}

func (req *EvaluateReq) eventContext() notifications.EventContext {
	return notifications.EventContext{
		ServerId:           req.ServerId,
		ChannelId:          req.ChannelId,
		ConversationId:     req.ConversationId,
		SenderId:           req.SenderId,
		RecipientId:        req.RecipientId,
		MentionedUserIds:   req.MentionedUserIds,
		IsReplyToRecipient: req.IsReplyToRecipient,
	}
}

type PayloadReq struct {
	Type string                    `json:"type" validate:"required,oneof=dm mention thread_reply message"`
	Data notifications.PayloadData `json:"data"`
}
