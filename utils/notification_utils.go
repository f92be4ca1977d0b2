// utils/notification_utils.go
package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
)

// SaveNotification saves a notification record to the database.
// Delivery happens outside this system.
func SaveNotification(ctx context.Context, db *mongo.Client, userID primitive.ObjectID, title, message, notifType string) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(ctx, notification)
	return err
}

// SendWithdrawalEmail mails a withdrawal decision to the operator
// address in WITHDRAWAL_NOTIFY_EMAIL. Accounts register by phone and
// carry no email of their own, so the user is named in the subject
// only. No-op when SMTP or the recipient is unconfigured.
func SendWithdrawalEmail(user models.User, amount int64, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	if smtpHost == "" || smtpUser == "" {
		return nil
	}
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			smtpPort = port
		}
	}

	recipient := os.Getenv("WITHDRAWAL_NOTIFY_EMAIL")
	if recipient == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", "Withdrawal update for "+user.FullName)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
