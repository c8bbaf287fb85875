package interfaces

// Mailer delivers transactional mail such as password reset links.
type Mailer interface {
	Send(to, subject, body string) error
}
