package services

import (
	"billkhata-backend/config"
	"billkhata-backend/models"
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

type NotificationService struct {
	fcm *messaging.Client
}

var notifService *NotificationService

// InitNotificationService wires up the Firebase messaging client. Push is
// skipped silently when credentials are missing so local runs still work.
func InitNotificationService() {
	notifService = &NotificationService{}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(config.AppConfig.FirebaseCredPath))
	if err != nil {
		log.Println("⚠️  Firebase not configured, push notifications disabled:", err)
		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Println("⚠️  Firebase messaging unavailable:", err)
		return
	}

	notifService.fcm = client
	log.Println("✅ Firebase messaging initialized")
}

func GetNotificationService() *NotificationService {
	if notifService == nil {
		notifService = &NotificationService{}
	}
	return notifService
}

func (ns *NotificationService) sendPush(fcmToken string, title string, body string, data map[string]string) {
	if ns.fcm == nil || fcmToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := ns.fcm.Send(context.Background(), msg); err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	log.Printf("✅ Push notification sent: %s", title)
}

func (ns *NotificationService) sendEmail(toEmail string, toName string, subject string, htmlBody string) {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Printf("⚠️  SendGrid API key not set, skipping email to %s", toEmail)
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("✅ Email sent to %s", toEmail)
	} else {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// ============================================================
// NOTIFICATION EVENTS
// ============================================================

// NotifyBillCreated tells every share holder what they owe.
func (ns *NotificationService) NotifyBillCreated(bill models.Bill, shares []models.BillShare, users map[string]models.User, khata models.Khata) {
	for _, share := range shares {
		user, ok := users[share.UserID.String()]
		if !ok {
			continue
		}

		title := fmt.Sprintf("New bill in %s", khata.Name)
		body := fmt.Sprintf("Your share of \"%s\" is BDT %.2f, due %s", bill.Title, share.Amount, bill.DueDate.Format("02 Jan 2006"))

		ns.sendPush(user.FCMToken, title, body, map[string]string{
			"type":     "bill_created",
			"bill_id":  bill.ID.String(),
			"khata_id": bill.KhataID.String(),
		})

		htmlBody := buildBillEmailHTML(user.Name, bill.Title, khata.Name, share.Amount, bill.DueDate.Format("02 Jan 2006"))
		ns.sendEmail(user.Email, user.Name, title, htmlBody)
	}
}

// NotifyPaymentDecision tells a member their marked payment was approved or denied.
func (ns *NotificationService) NotifyPaymentDecision(member models.User, bill models.Bill, amount float64, approved bool) {
	var title, body string
	if approved {
		title = "Payment approved"
		body = fmt.Sprintf("Your BDT %.2f payment for \"%s\" was approved", amount, bill.Title)
	} else {
		title = "Payment denied"
		body = fmt.Sprintf("Your BDT %.2f payment for \"%s\" was denied, please pay again", amount, bill.Title)
	}

	ns.sendPush(member.FCMToken, title, body, map[string]string{
		"type":    "payment_decision",
		"bill_id": bill.ID.String(),
	})
	ns.sendEmail(member.Email, member.Name, title, buildSimpleEmailHTML(member.Name, body))
}

// NotifyApprovalDecision covers expense and deposit approve/reject outcomes.
func (ns *NotificationService) NotifyApprovalDecision(member models.User, kind string, amount float64, approved bool) {
	verb := "rejected"
	if approved {
		verb = "approved"
	}
	title := fmt.Sprintf("%s %s", kind, verb)
	body := fmt.Sprintf("Your %s of BDT %.2f was %s", kind, amount, verb)

	ns.sendPush(member.FCMToken, title, body, map[string]string{"type": "approval_decision"})
	ns.sendEmail(member.Email, member.Name, title, buildSimpleEmailHTML(member.Name, body))
}

// NotifyJoinDecision tells a user whether their join request went through.
func (ns *NotificationService) NotifyJoinDecision(user models.User, khata models.Khata, approved bool) {
	var title, body string
	if approved {
		title = fmt.Sprintf("Welcome to %s", khata.Name)
		body = fmt.Sprintf("Your request to join \"%s\" was approved", khata.Name)
	} else {
		title = "Join request denied"
		body = fmt.Sprintf("Your request to join \"%s\" was denied", khata.Name)
	}

	ns.sendPush(user.FCMToken, title, body, map[string]string{
		"type":     "join_decision",
		"khata_id": khata.ID.String(),
	})
	ns.sendEmail(user.Email, user.Name, title, buildSimpleEmailHTML(user.Name, body))
}

// NotifyMealEditRequest asks a member to confirm a manager's change to a
// finalized day.
func (ns *NotificationService) NotifyMealEditRequest(member models.User, manager models.User, req models.MealEditRequest) {
	title := "Meal edit needs your approval"
	body := fmt.Sprintf("%s wants to change your meals for %s to %d/%d/%d",
		manager.Name, req.Date.Format("02 Jan"), req.Breakfast, req.Lunch, req.Dinner)

	ns.sendPush(member.FCMToken, title, body, map[string]string{
		"type":       "meal_edit_request",
		"request_id": req.ID.String(),
	})
	ns.sendEmail(member.Email, member.Name, title, buildSimpleEmailHTML(member.Name, body))
}

// NotifyInvitation sends email to non-registered users.
func (ns *NotificationService) NotifyInvitation(email string, inviterName string, khataName string) {
	subject := fmt.Sprintf("%s invited you to join \"%s\" on %s", inviterName, khataName, config.AppConfig.AppName)
	htmlBody := buildInvitationEmailHTML(inviterName, khataName)
	ns.sendEmail(email, "", subject, htmlBody)
}

// ============================================================
// EMAIL TEMPLATES
// ============================================================

func buildBillEmailHTML(userName, billTitle, khataName string, amount float64, dueDate string) string {
	tmpl := `
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">🧾 New Bill</h2>
		<p>Hi <strong>{{.UserName}}</strong>,</p>
		<p>A new bill was added in <strong>{{.KhataName}}</strong>:</p>
		<div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0;">
			<p style="margin: 4px 0; font-size: 18px;"><strong>{{.BillTitle}}</strong></p>
			<p style="margin: 4px 0; color: #e53e3e; font-size: 18px;"><strong>Your share: BDT {{printf "%.2f" .Amount}}</strong></p>
			<p style="margin: 4px 0; color: #666;">Due: {{.DueDate}}</p>
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— BillKhata</p>
	</div>
</body>
</html>`

	t, _ := template.New("bill").Parse(tmpl)
	var buf bytes.Buffer
	t.Execute(&buf, map[string]interface{}{
		"UserName":  userName,
		"BillTitle": billTitle,
		"KhataName": khataName,
		"Amount":    amount,
		"DueDate":   dueDate,
	})
	return buf.String()
}

func buildSimpleEmailHTML(userName, message string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<p>Hi <strong>%s</strong>,</p>
		<p>%s.</p>
		<p>Check the app for your updated balances.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— BillKhata</p>
	</div>
</body>
</html>`, userName, message)
}

func buildInvitationEmailHTML(inviterName, khataName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">🎉 You're invited!</h2>
		<p><strong>%s</strong> invited you to join <strong>"%s"</strong> on BillKhata.</p>
		<p>BillKhata keeps shared-living bills, meals and deposits in one ledger.</p>
		<div style="margin: 24px 0;">
			<a href="%s" style="background: #1DB954; color: white; padding: 12px 32px; border-radius: 8px; text-decoration: none; font-weight: bold;">Join Now</a>
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— BillKhata</p>
	</div>
</body>
</html>`, inviterName, khataName, config.AppConfig.AppURL)
}
