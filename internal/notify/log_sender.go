package notify

import (
	"context"
	"log"
)

// LogSender is a stand-in used when no Firebase credentials are configured,
// typically local development. It logs what would have been pushed.
type LogSender struct{}

func (LogSender) Send(_ context.Context, fcmToken, title, body string, _ map[string]string) error {
	log.Printf("Push (dry-run) to %s: %s - %s", fcmToken, title, body)
	return nil
}
