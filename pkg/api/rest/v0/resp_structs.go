package v0_rest

import (
	"github.com/meower-media/notifications/pkg/structs"
)

type BaseResp struct {
	Error bool `json:"error"`
}

type ErrResp struct {
	Error  bool              `json:"error"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

type StatusResp struct {
	Error bool `json:"error"`
	Mongo bool `json:"mongo"`
	Redis bool `json:"redis"`
}

type NotificationSettingsResp struct {
	Error bool `json:"error"`
	structs.V0NotificationSettings
}

type DecisionResp struct {
	Error bool `json:"error"`
	structs.V0NotificationDecision
}

type PayloadResp struct {
	Error bool `json:"error"`
	structs.V0NotificationPayload
}
