package alerting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/matcornic/hermes/v2"
	"github.com/sirupsen/logrus"
)

const alertSubject = "Chirp Failure"

// MailHook emails operators every ERROR (or worse) log entry.
type MailHook struct {
	mailer  Mailer
	from    string
	admins  []string
	product hermes.Hermes
	timeout time.Duration
}

func NewMailHook(mailer Mailer, from string, admins []string) *MailHook {
	return &MailHook{
		mailer: mailer,
		from:   from,
		admins: admins,
		product: hermes.Hermes{
			Product: hermes.Product{
				Name: "Chirp",
				Link: "https://chirp.local/",
			},
		},
		timeout: 10 * time.Second,
	}
}

func (h *MailHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

func (h *MailHook) Fire(entry *logrus.Entry) error {
	msg, err := h.render(entry)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	return h.mailer.Send(ctx, msg)
}

func (h *MailHook) render(entry *logrus.Entry) (Message, error) {
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dictionary := []hermes.Entry{
		{Key: "Level", Value: entry.Level.String()},
		{Key: "Time", Value: entry.Time.UTC().Format(time.RFC3339)},
	}
	for _, k := range keys {
		dictionary = append(dictionary, hermes.Entry{Key: k, Value: fmt.Sprint(entry.Data[k])})
	}

	email := hermes.Email{
		Body: hermes.Body{
			Title:      alertSubject,
			Intros:     []string{entry.Message},
			Dictionary: dictionary,
			Signature:  "Chirp server",
		},
	}

	html, err := h.product.GenerateHTML(email)
	if err != nil {
		return Message{}, fmt.Errorf("render alert html: %w", err)
	}
	text, err := h.product.GeneratePlainText(email)
	if err != nil {
		return Message{}, fmt.Errorf("render alert text: %w", err)
	}

	return Message{
		From:    h.from,
		To:      h.admins,
		Subject: alertSubject,
		HTML:    html,
		Text:    text,
	}, nil
}
