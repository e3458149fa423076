package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects a renderer in the worker ("welcome"); Data feeds it.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
