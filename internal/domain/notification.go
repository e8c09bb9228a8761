package domain

// Notification is a push payload delivered to device tokens.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
