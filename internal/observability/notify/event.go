package notify

import (
	"context"
	"time"
)

// InquiryPayload captures the canonical data we emit when a visitor submits
// the contact form.
type InquiryPayload struct {
	Name         string
	Email        string
	Phone        string
	ServiceID    string
	ServiceTitle string
	Message      string
	ReceivedAt   time.Time
}

// Sink describes a destination capable of consuming contact inquiries.
type Sink interface {
	SendInquiry(ctx context.Context, payload InquiryPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload InquiryPayload) error

// SendInquiry implements the Sink interface.
func (f SinkFunc) SendInquiry(ctx context.Context, payload InquiryPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
