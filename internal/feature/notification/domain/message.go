// Package domain defines the email message handled by the notification feature.
package domain

import "errors"

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("email has no recipient")

// Message is a single outbound email. An empty From is filled in with the
// configured sender before it reaches a transport.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Validate checks the fields every transport requires.
func (m Message) Validate() error {
	if m.To == "" {
		return ErrNoRecipient
	}
	return nil
}
