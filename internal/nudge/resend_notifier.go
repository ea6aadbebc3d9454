package nudge

import (
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendNotifier struct {
	APIKey string
	Email  string
}

func (r *ResendNotifier) SendMissedSummary(subject, html string) error {
	client := resend.NewClient(r.APIKey)
	params := &resend.SendEmailRequest{
		From:    "tally@resend.dev",
		To:      []string{r.Email},
		Subject: subject,
		Html:    html,
	}
	if _, err := client.Emails.Send(params); err != nil {
		return fmt.Errorf("send nudge mail: %w", err)
	}
	return nil
}

var _ Notifier = (*ResendNotifier)(nil)
