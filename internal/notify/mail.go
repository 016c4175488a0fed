package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
)

// Message is one rendered notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers rendered messages. SMTP or provider delivery plugs in here.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the process log instead of delivering them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("mail: to=%s subject=%q\n%s", msg.To, msg.Subject, msg.Body)
	return nil
}

// Render builds the message for ev. Issue reports and completed offboardings go to adminEmail;
// onboarding and offboarding notices go to the identity.
func Render(ev lifecycle.Event, adminEmail string) (Message, error) {
	name := ev.Name
	if name == "" {
		name = ev.Email
	}
	switch ev.Kind {
	case lifecycle.EventIssueReported:
		note := strings.TrimSpace(ev.Note)
		if note == "" {
			note = "No additional details provided"
		}
		var b strings.Builder
		b.WriteString("A user has reported an issue with their credentials that requires your attention.\n\n")
		fmt.Fprintf(&b, "User: %s\n", ev.Email)
		if ev.CredentialName != "" {
			fmt.Fprintf(&b, "Credential: %s\n", ev.CredentialName)
		}
		fmt.Fprintf(&b, "Note: %s\n", note)
		return Message{To: adminEmail, Subject: "Credential Issue Reported - Action Required", Body: b.String()}, nil
	case lifecycle.EventOnboarded:
		return Message{
			To:      ev.Email,
			Subject: "Welcome Aboard! - Your Account is Now Active",
			Body: fmt.Sprintf("Congratulations %s! Your account has been onboarded and you now have full access "+
				"to the credentials management system.\n", name),
		}, nil
	case lifecycle.EventOffboardingInitiated:
		return Message{
			To:      ev.Email,
			Subject: "Account Offboarding Notice - Credentials Dashboard",
			Body: fmt.Sprintf("Dear %s,\n\nYour account offboarding process has been initiated. Your credentials are "+
				"being reviewed and deactivated.\n\nIf you believe this is an error, contact your system administrator.\n", name),
		}, nil
	case lifecycle.EventOffboardingComplete:
		return Message{
			To:      adminEmail,
			Subject: fmt.Sprintf("Offboarding Complete - %s (%s)", name, ev.Email),
			Body: fmt.Sprintf("The offboarding process for %s (%s) has been completed. All credentials are "+
				"marked inactive and the account status is Offboarded.\n", name, ev.Email),
		}, nil
	}
	return Message{}, fmt.Errorf("no message for event kind %q", ev.Kind)
}
