package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pawwell/pawwell-go/routes"
)

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Validate performs the client-side field checks.
func (m ContactMessage) Validate() error {
	fields := map[string][]string{}
	if strings.TrimSpace(m.Name) == "" {
		fields["name"] = append(fields["name"], "Name is required.")
	}
	if !emailPattern.MatchString(strings.ToLower(strings.TrimSpace(m.Email))) {
		fields["email"] = append(fields["email"], "Enter a valid email address.")
	}
	if strings.TrimSpace(m.Message) == "" {
		fields["message"] = append(fields["message"], "Message is required.")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ContactClient wraps the contact-us endpoint. It works logged-in or out.
type ContactClient struct {
	client *Client
}

// Send submits a contact message.
func (c *ContactClient) Send(ctx context.Context, msg ContactMessage) (StatusResponse, error) {
	if c == nil || c.client == nil {
		return StatusResponse{}, fmt.Errorf("sdk: contact client not initialized")
	}
	if err := msg.Validate(); err != nil {
		return StatusResponse{}, err
	}
	var resp StatusResponse
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.Contact, msg, &resp); err != nil {
		return StatusResponse{}, err
	}
	return resp, nil
}
