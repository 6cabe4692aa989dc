package notify

import (
	"fmt"
	"os"

	"github.com/wneessen/go-mail"

	"fornello_back_end/internal/models"
)

// Mailer envoie les emails transactionnels via SMTP.
type Mailer struct {
	host     string
	username string
	password string
	from     string
}

// NewMailerFromEnv construit le Mailer depuis l'environnement. Renvoie nil si
// SMTP_HOST est absent : les emails sont alors simplement désactivés.
func NewMailerFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@fornello.app"
	}
	return &Mailer{
		host:     host,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     from,
	}
}

// SendStatusEmail informe le client du nouveau statut de sa commande.
func (m *Mailer) SendStatusEmail(order models.Order, newStatus string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(order.Customer.Email); err != nil {
		return err
	}
	msg.Subject(statusEmailSubject(newStatus))
	msg.SetBodyString(mail.TypeTextHTML, statusEmailHTML(order, newStatus))

	client, err := mail.NewClient(m.host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}

func statusEmailSubject(status string) string {
	switch status {
	case models.StatusConfirmed:
		return "✅ Order confirmed - Fornello"
	case models.StatusPrepared:
		return "🍕 Your order is being prepared - Fornello"
	case models.StatusOutForDelivery:
		return "🛵 Your order is on its way - Fornello"
	case models.StatusDelivered:
		return "🎉 Your order has been delivered - Fornello"
	case models.StatusCancelled:
		return "❌ Order cancelled - Fornello"
	default:
		return "📋 Order update - Fornello"
	}
}

func statusEmailMessage(status string) string {
	switch status {
	case models.StatusConfirmed:
		return "Your order has been confirmed and will be prepared shortly."
	case models.StatusPrepared:
		return "Your order is being prepared in our kitchen."
	case models.StatusOutForDelivery:
		return "Your order has left the kitchen and is on its way to you."
	case models.StatusDelivered:
		return "Your order has been delivered. Enjoy your meal!"
	case models.StatusCancelled:
		return "Your order has been cancelled. If you have any questions, please contact us."
	default:
		return "The status of your order has been updated."
	}
}

func statusEmailHTML(order models.Order, status string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">₹%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Order update</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">%s</h2>
		<p>Hi %s,</p>
		<p>%s</p>

		<h3>Order #%s</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Item</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Qty</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="2" style="padding: 8px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 8px; font-weight: bold;">₹%.2f</td>
				</tr>
			</tfoot>
		</table>

		<p style="margin-top: 30px; color: #555;">
			Bon appétit,<br>
			<strong>The Fornello team</strong>
		</p>
	</div>
</body>
</html>`, statusEmailSubject(status), order.Customer.FirstName, statusEmailMessage(status), shortID(order.ID), itemsHTML, order.Pricing.Total)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
