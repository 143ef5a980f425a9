package structs

type V0NotificationDecision struct {
	ShouldNotify bool   `json:"should_notify"`
	Type         string `json:"type"`
	Reason       string `json:"reason,omitempty"`
	Channels     struct {
		Sound   bool `json:"sound"`
		Desktop bool `json:"desktop"`
		Push    bool `json:"push"`
	} `json:"channels"`
}

type V0NotificationPayload struct {
	Title string  `json:"title"`
	Body  string  `json:"body"`
	Url   string  `json:"url"`
	Icon  *string `json:"icon"`
}
