package notification

import (
	"log/slog"
	"sync"
)

// ConsoleMailer logs messages instead of delivering them. It is the default
// in development and the recording double in tests.
type ConsoleMailer struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []*Message
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) SendMessages(messages ...*Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range messages {
		if !msg.HasRecipients() || msg.Body == "" {
			continue
		}
		m.sent = append(m.sent, msg)
		m.logger.Info("email (console)",
			"to", msg.To[0].Address,
			"recipients", len(msg.To),
			"subject", msg.Subject)
	}
}

// Sent returns a copy of everything delivered so far.
func (m *ConsoleMailer) Sent() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Message, len(m.sent))
	copy(out, m.sent)
	return out
}
