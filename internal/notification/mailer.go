// Package notification sends guardian emails driven by attendance events
// and by explicit staff requests.
package notification

import "net/mail"

// Message is one outbound email. Plain text only; the admin tooling this
// serves has no use for HTML mail.
type Message struct {
	To      []mail.Address
	Subject string
	Body    string
}

func (m *Message) HasRecipients() bool {
	return len(m.To) > 0
}

// Mailer delivers messages asynchronously. Implementations log their own
// failures; callers never block on delivery.
type Mailer interface {
	SendMessages(messages ...*Message)
}
