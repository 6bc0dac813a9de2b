package models

// AlertMessage is a plain text notification sent to the stock manager. A blank
// To falls back to the configured alert recipient.
type AlertMessage struct {
	To         string `json:"to"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
