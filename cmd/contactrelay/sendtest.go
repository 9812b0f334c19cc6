package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/mail"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var sendTestCmd = &cobra.Command{
	Use:   "send-test",
	Short: "Send a sample submission through the configured provider",
	Long: `Build a sample contact message and send it with the configured mail
provider, bypassing the HTTP layer. Useful for checking SMTP credentials.

Example:
  contactrelay send-test
  contactrelay send-test --subject "Deploy check"`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		initLogger(cfg)

		err := sendTest(cmd, cfg)
		logger.Close()
		if err != nil {
			os.Exit(1)
		}
	},
}

func sendTest(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Mail.Ready(); err != nil {
		logger.Error("Mail is not configured: %v", err)
		return err
	}

	transport, err := mail.NewTransport(&cfg.Mail, logger)
	if err != nil {
		logger.Error("Failed to create mail transport: %v", err)
		return err
	}
	dispatcher := mail.NewDispatcher(&cfg.Mail, transport, logger)

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	subject, _ := cmd.Flags().GetString("subject")
	message, _ := cmd.Flags().GetString("message")

	s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Sending via %s to %s...", dispatcher.Provider(), cfg.Mail.Recipient())
	s.Start()
	err = dispatcher.Dispatch(context.Background(), mail.Submission{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	})
	s.Stop()

	if err != nil {
		logger.Error("Send failed: %v", err)
		return err
	}
	fmt.Printf("Message sent to %s\n", cfg.Mail.Recipient())
	return nil
}

func init() {
	sendTestCmd.Flags().String("name", "contactrelay", "Submitter name")
	sendTestCmd.Flags().String("email", "noreply@example.com", "Submitter email, used as Reply-To")
	sendTestCmd.Flags().String("subject", "Test message", "Subject")
	sendTestCmd.Flags().String("message", "This is a test message.\nIf you can read it, mail delivery works.", "Message body")
}
