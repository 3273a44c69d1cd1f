package model

// Webhook is the subscription of an office to a set of events.
type Webhook struct {
	ID        string      `json:"id"`                // Unique ID of a Webhook.
	Version   int64       `json:"version"`           // Version of the Webhook.
	OfficeID  string      `json:"office_id"`         // The office this Webhook belongs to.
	Url       string      `json:"url"`               // The URL the WebhookEvent sent to.
	Events    []EventType `json:"events"`            // List of events to trigger the Webhook.
	Secret    string      `json:"secret,omitempty"`  // Secret used to generate the HMAC-SHA256 signature.
	CreatedAt int64       `json:"created_at"`        // Unix Time (in second) when the Webhook was created.
	UpdatedAt int64       `json:"updated_at"`        // Unix Time (in second) when the Webhook was last updated.
	Deleted   bool        `json:"deleted,omitempty"` // Whether the Webhook is deleted.
}

// WebhookEvent is one delivery of an Event to one Webhook.
type WebhookEvent struct {
	ID        string    `json:"id"`         // ID of the Event.
	WebhookID string    `json:"webhook_id"` // The Webhook the event is delivered to.
	Url       string    `json:"url"`        // The URL the WebhookEvent sent to.
	Type      EventType `json:"type"`       // Type of the event.
	SubjectID string    `json:"subject_id"` // ID of the subject of the event.
	BLID      string    `json:"bl_id,omitempty"`
	CreatedAt int64     `json:"created_at"` // Unix Time (in second) when the WebhookEvent was created.
}
