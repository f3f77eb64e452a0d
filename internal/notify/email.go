package notify

import (
	"time"

	"github.com/wneessen/go-mail"

	"mkaplan/eventdigest/helpers"
	"mkaplan/eventdigest/logger"
	pkgerr "mkaplan/eventdigest/pkg/errors"
)

// EmailNotifier delivers digests over SMTP with STARTTLS. The message
// carries a plain-text part alongside the HTML body for clients that do
// not render HTML.
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
}

// NewEmailNotifier creates a new SMTP notifier
func NewEmailNotifier(host string, port int, username, password string) *EmailNotifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

// GetName returns the notifier name
func (n *EmailNotifier) GetName() string {
	return "email"
}

// Notify sends the digest to its recipient
func (n *EmailNotifier) Notify(digest *Digest) error {
	msg, err := n.buildMessage(digest)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(n.host,
		mail.WithPort(n.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.username),
		mail.WithPassword(n.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(30*time.Second),
	)
	if err != nil {
		return pkgerr.NewNotification(n.GetName(), "failed to create smtp client", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return pkgerr.NewNotification(n.GetName(), "failed to send email", err)
	}

	logger.ForNotifier(n.GetName()).Info().
		Str("recipient", digest.Recipient).
		Str("subject", digest.Subject).
		Msg("Email sent")

	return nil
}

func (n *EmailNotifier) buildMessage(digest *Digest) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.username); err != nil {
		return nil, pkgerr.NewNotification(n.GetName(), "invalid sender address", err)
	}
	if err := msg.To(digest.Recipient); err != nil {
		return nil, pkgerr.NewNotification(n.GetName(), "invalid recipient address", err)
	}
	msg.Subject(digest.Subject)

	body := digest.RenderBody()
	msg.SetBodyString(mail.TypeTextPlain, helpers.StripHTMLTags(digest.HTML))
	msg.AddAlternativeString(mail.TypeTextHTML, body)

	return msg, nil
}
