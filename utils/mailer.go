package utils

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

func init() {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Printf("AWS config load failed, email disabled: %v", err)
		return
	}
	sesClient = ses.NewFromConfig(cfg)
}

func sendEmail(to, subject, body string) error {
	if sesClient == nil {
		return fmt.Errorf("email not configured")
	}
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	if _, err := sesClient.SendEmail(context.TODO(), input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

func SendMFAEmail(to, code string) error {
	body := fmt.Sprintf("Your verification code is: %s\n\nUse this to complete your login.", code)
	return sendEmail(to, "Your Nourish verification code", body)
}

func SendResetEmail(to, token string) error {
	body := fmt.Sprintf("Your password reset code is: %s\n\nUse this in the app to set a new password.", token)
	return sendEmail(to, "Password reset code", body)
}
