package service

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

func twilioClient() (*twilio.RestClient, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSid == "" || authToken == "" {
		return nil, fmt.Errorf("twilio credentials not configured")
	}
	return twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	}), nil
}

// SendSMS delivers a text message through Twilio.
func SendSMS(toNumber, messageBody string) error {
	client, err := twilioClient()
	if err != nil {
		log.Println("WARNING: Twilio credentials not configured, SMS will not be sent.")
		return err
	}
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if fromNumber == "" {
		return fmt.Errorf("TWILIO_FROM_NUMBER not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number '%s' is not E.164, SMS may fail", toNumber)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Error sending SMS to %s via Twilio: %v", toNumber, err)
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s, message SID %s", toNumber, *resp.Sid)
	}
	return nil
}

// PlaceCall initiates an outbound voice call through the Twilio Calls API.
// voiceURL serves the TwiML that bridges the call into the voice agent.
// Returns the provider call SID.
func PlaceCall(toNumber, voiceURL string) (string, error) {
	client, err := twilioClient()
	if err != nil {
		return "", err
	}
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if fromNumber == "" {
		return "", fmt.Errorf("TWILIO_FROM_NUMBER not configured")
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetUrl(voiceURL)

	resp, err := client.Api.CreateCall(params)
	if err != nil {
		log.Printf("Error placing outbound call to %s via Twilio: %v", toNumber, err)
		return "", fmt.Errorf("failed to place outbound call: %w", err)
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Printf("Outbound call to %s initiated, call SID %s", toNumber, sid)
	return sid, nil
}

// SendEmailWithSendGrid delivers a transactional email.
func SendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY not configured, email will not be sent.")
		return fmt.Errorf("SENDGRID_API_KEY not configured")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		log.Println("WARNING: SENDGRID_FROM_EMAIL not configured, email will not be sent.")
		return fmt.Errorf("SENDGRID_FROM_EMAIL not configured")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "La Tavola"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email via SendGrid to %s: %v", toEmailAddress, err)
		return fmt.Errorf("failed to send email through SendGrid: %w", err)
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (subject: %s), status %d", toEmailAddress, subject, response.StatusCode)
		return nil
	}
	log.Printf("SendGrid returned status %d for %s: %s", response.StatusCode, toEmailAddress, response.Body)
	return fmt.Errorf("SendGrid returned non-success status %d", response.StatusCode)
}
