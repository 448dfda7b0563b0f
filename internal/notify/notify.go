package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v5"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"derrclan.com/verse-sdk/internal/votd"
)

const (
	maxRetries     = 5
	initialBackoff = time.Second
)

// MailConfig holds the Mailgun credentials.
type MailConfig struct {
	Domain string
	APIKey string
	Sender string
}

// MailConfigFromEnv reads MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER.
func MailConfigFromEnv() (MailConfig, error) {
	c := MailConfig{
		Domain: os.Getenv("MAILGUN_DOMAIN"),
		APIKey: os.Getenv("MAILGUN_API_KEY"),
		Sender: os.Getenv("MAILGUN_SENDER"),
	}
	if c.Domain == "" || c.APIKey == "" || c.Sender == "" {
		return c, fmt.Errorf("mailgun configuration missing")
	}
	return c, nil
}

// Subject is the mail subject for d.
func Subject(d votd.Display) string {
	return fmt.Sprintf("Verse of the Day: %s (%s)", d.Reference, d.Translation)
}

// SendVerse emails the verse of the day to recipient.
func SendVerse(ctx context.Context, cfg MailConfig, recipient string, d votd.Display) error {
	body, err := RenderHTML(d)
	if err != nil {
		return err
	}

	mg := mailgun.NewMailgun(cfg.APIKey)

	message := mailgun.NewMessage(cfg.Domain, cfg.Sender, Subject(d), PlainText(d))
	message.AddRecipient(recipient)
	message.SetHTML(body)

	err = retry(ctx, maxRetries, initialBackoff, func(ctx context.Context) error {
		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		_, err := mg.Send(sendCtx, message)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to send verse email: %w", err)
	}

	slog.Info("verse email sent", "recipient", recipient, "reference", d.Reference)
	return nil
}

// PlainText is the text/plain alternative of the mail.
func PlainText(d votd.Display) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s\n", d.Reference, d.Text, d.Translation)
}

// RenderHTML builds the mail body as a node tree so verse text is escaped.
func RenderHTML(d votd.Display) (string, error) {
	body := element(atom.Body, "body")
	body.AppendChild(textElement(atom.H1, "h1", d.Reference))

	quote := element(atom.Blockquote, "blockquote")
	quote.AppendChild(textElement(atom.P, "p", d.Text))
	body.AppendChild(quote)

	footer := textElement(atom.P, "p", d.Translation)
	footer.Attr = append(footer.Attr, html.Attribute{Key: "class", Val: "translation"})
	body.AppendChild(footer)

	root := element(atom.Html, "html")
	root.AppendChild(body)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("failed to render node: %w", err)
	}
	return buf.String(), nil
}

func element(a atom.Atom, tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: a}
}

func textElement(a atom.Atom, tag, text string) *html.Node {
	n := element(a, tag)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

// retry calls fn up to attempts times, doubling the wait after each failure.
func retry(ctx context.Context, attempts int, backoff time.Duration, fn func(context.Context) error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		slog.Warn("send attempt failed", "attempt", i+1, "error", lastErr)

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
