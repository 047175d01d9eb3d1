// Package notifier delivers workflow events to customers and staff.
// Delivery is fire-and-forget: every backend dispatches asynchronously and
// logs failures, so a broken channel can never abort or roll back the
// workflow transition that produced the event.
package notifier

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Event name constants
const (
	EventAppointmentConfirmed      = "appointment_confirmed"
	EventAppointmentCancelled      = "appointment_cancelled"
	EventAppointmentReminder       = "appointment_reminder"
	EventProjectApprovalRequested  = "project_approval_requested"
	EventProjectApproved           = "project_approved"
	EventProjectStatusChanged      = "project_status_changed"
	EventPaymentProofSubmitted     = "payment_proof_submitted"
	EventPaymentVerified           = "payment_verified"
	EventPaymentRejected           = "payment_rejected"
)

// Notifier pushes one event to one recipient. Implementations must not block
// the caller and must swallow their own delivery errors.
type Notifier interface {
	Notify(event, recipient string, data map[string]interface{})
}

// Multi fans an event out to several backends.
type Multi []Notifier

func (m Multi) Notify(event, recipient string, data map[string]interface{}) {
	for _, n := range m {
		n.Notify(event, recipient, data)
	}
}

func renderBody(event string, data map[string]interface{}) string {
	switch event {
	case EventAppointmentConfirmed:
		return fmt.Sprintf("Your RMV consultation on %v is confirmed.", data["when"])
	case EventAppointmentCancelled:
		return fmt.Sprintf("Your RMV consultation on %v has been cancelled.", data["when"])
	case EventAppointmentReminder:
		return fmt.Sprintf("Reminder: your RMV consultation is scheduled for %v.", data["when"])
	case EventProjectApprovalRequested:
		return fmt.Sprintf("Your RMV project %v is ready for your review and approval.", data["title"])
	case EventProjectApproved:
		return fmt.Sprintf("Your RMV project %v is approved. The initial payment is now due.", data["title"])
	case EventProjectStatusChanged:
		return fmt.Sprintf("Your RMV project %v moved to status: %v.", data["title"], data["status"])
	case EventPaymentVerified:
		return fmt.Sprintf("Payment received. Your official receipt number is %v.", data["receipt_number"])
	case EventPaymentRejected:
		return fmt.Sprintf("Your payment submission was rejected: %v.", data["reason"])
	default:
		return "RMV Stainless: update on your account."
	}
}

// SMSNotifier sends events as SMS through Twilio.
type SMSNotifier struct {
	client *twilio.RestClient
	from   string
}

// NewSMSNotifier builds a Twilio-backed notifier from the environment
// (TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_PHONE_NUMBER).
func NewSMSNotifier() *SMSNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &SMSNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (n *SMSNotifier) Notify(event, recipient string, data map[string]interface{}) {
	if recipient == "" {
		return
	}

	body := renderBody(event, data)

	go func() {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(recipient)
		params.SetFrom(n.from)
		params.SetBody(body)

		if _, err := n.client.Api.CreateMessage(params); err != nil {
			log.Printf("sms notify %s to %s failed: %v", event, recipient, err)
		}
	}()
}

// Broadcaster is the websocket hub surface the event feed needs.
type Broadcaster interface {
	BroadcastJSON(payload interface{})
}

// FeedNotifier pushes events onto the staff dashboard websocket feed.
type FeedNotifier struct {
	hub Broadcaster
}

func NewFeedNotifier(hub Broadcaster) *FeedNotifier {
	return &FeedNotifier{hub: hub}
}

func (n *FeedNotifier) Notify(event, recipient string, data map[string]interface{}) {
	payload := map[string]interface{}{
		"event":     event,
		"recipient": recipient,
		"data":      data,
	}
	// Sanity-check the payload is serializable before handing it to the hub.
	if _, err := json.Marshal(payload); err != nil {
		log.Printf("feed notify %s: payload not serializable: %v", event, err)
		return
	}
	n.hub.BroadcastJSON(payload)
}
