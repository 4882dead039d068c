package main

import (
	"context"
	"testing"

	appconfig "github.com/contentflowhq/lead-pipeline/internal/config"
	"github.com/contentflowhq/lead-pipeline/internal/notify"
	"github.com/contentflowhq/lead-pipeline/pkg/logging"
)

func TestBuildEmailSenderResend(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		EmailProvider:   "resend",
		ResendAPIKey:    "re_test",
		NotifyFromEmail: "leads@example.com",
	}

	sender := buildEmailSender(context.Background(), cfg, logger)
	if _, ok := sender.(*notify.ResendSender); !ok {
		t.Fatalf("expected resend sender, got %T", sender)
	}
}

func TestBuildEmailSenderSendGrid(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		EmailProvider:   "sendgrid",
		SendGridAPIKey:  "sg_test",
		NotifyFromEmail: "leads@example.com",
	}

	sender := buildEmailSender(context.Background(), cfg, logger)
	if _, ok := sender.(*notify.SendGridSender); !ok {
		t.Fatalf("expected sendgrid sender, got %T", sender)
	}
}

func TestBuildEmailSenderStubWhenMissingKey(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{EmailProvider: "resend"}

	sender := buildEmailSender(context.Background(), cfg, logger)
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub sender when API key is missing, got %T", sender)
	}
}

func TestBuildEmailSenderUnknownProvider(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{EmailProvider: "pigeon"}

	sender := buildEmailSender(context.Background(), cfg, logger)
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub sender for unknown provider, got %T", sender)
	}
}
