// Package delivery abstracts how password-reset tokens reach the user.
// The real channel (email) does not exist yet; the console sender is the
// development stand-in.
package delivery

import "github.com/sirupsen/logrus"

type Sender interface {
	Send(email, token string) error
}

type ConsoleSender struct{}

func NewConsole() *ConsoleSender {
	return &ConsoleSender{}
}

func (s *ConsoleSender) Send(email, token string) error {
	logrus.WithFields(logrus.Fields{
		"email": email,
		"token": token,
	}).Info("password reset token issued")
	return nil
}
