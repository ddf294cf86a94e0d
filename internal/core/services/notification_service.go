package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"saccohub/internal/adapters/persistence/models"
)

// NotificationService posts member-facing events to the configured webhook.
// Delivery is best-effort; failures are logged and never surfaced to the
// caller.
type NotificationService struct {
	webhookURL string
	client     *http.Client
}

// NewNotificationService creates a new notification service. An empty
// webhook URL disables delivery.
func NewNotificationService(webhookURL string) *NotificationService {
	return &NotificationService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Event    string `json:"event"`
	MemberNo string `json:"member_no"`
	Message  string `json:"message"`
	SentAt   string `json:"sent_at"`
}

// NotifyMembershipStatus notifies a member of a membership status change
func (s *NotificationService) NotifyMembershipStatus(member *models.Member) {
	s.send(webhookPayload{
		Event:    "membership_status_changed",
		MemberNo: member.MemberNo,
		Message:  fmt.Sprintf("Your membership is now %s", member.MembershipStatus),
	})
}

// NotifyLoanDecision notifies a member of a loan application decision
func (s *NotificationService) NotifyLoanDecision(loan *models.Loan) {
	memberNo := ""
	if loan.Member != nil {
		memberNo = loan.Member.MemberNo
	}
	s.send(webhookPayload{
		Event:    "loan_decided",
		MemberNo: memberNo,
		Message:  fmt.Sprintf("Loan %s is now %s", loan.LoanNo, loan.Status),
	})
}

func (s *NotificationService) send(payload webhookPayload) {
	if s.webhookURL == "" {
		return
	}

	payload.SentAt = time.Now().Format(time.RFC3339)

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️ Failed to marshal webhook payload: %v", err)
		return
	}

	go func() {
		resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("⚠️ Webhook delivery failed: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			log.Printf("⚠️ Webhook returned status %d", resp.StatusCode)
		}
	}()
}
