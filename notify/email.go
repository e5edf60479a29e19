package notify

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/pocketbase/pocketbase/tools/mailer"

	"djanselme/models"
)

// eventTypeDisplay maps the enum to its public French label.
var eventTypeDisplay = map[string]string{
	"mariage":       "Mariage",
	"anniversaire":  "Anniversaire",
	"soiree-privee": "Soirée privée",
	"corporate":     "Événement corporate",
	"festival":      "Festival",
	"autre":         "Autre",
}

func displayEventType(v string) string {
	if label, ok := eventTypeDisplay[v]; ok {
		return label
	}
	return v
}

// BuildOwnerMessage composes the full-detail notification sent to the DJ.
func BuildOwnerMessage(p models.NotificationPayload, from mail.Address, owner string) *mailer.Message {
	var subject string
	if p.Type == models.NotificationTypeBooking {
		subject = fmt.Sprintf("Nouvelle demande de réservation - %s", p.Name)
	} else {
		subject = fmt.Sprintf("Nouvelle demande de devis - %s", p.Name)
	}

	var b strings.Builder
	b.WriteString("<h2>")
	if p.Type == models.NotificationTypeBooking {
		b.WriteString("Nouvelle réservation")
	} else {
		b.WriteString("Nouvelle demande de devis")
	}
	b.WriteString("</h2>")
	b.WriteString("<h3>Informations du client</h3><ul>")
	writeRow(&b, "Nom", p.Name)
	writeRow(&b, "Email", p.Email)
	writeRow(&b, "Téléphone", p.Phone)
	b.WriteString("</ul><h3>Détails de l'événement</h3><ul>")
	writeRow(&b, "Type d'événement", displayEventType(p.EventType))
	writeRow(&b, "Date", p.EventDate)
	writeRow(&b, "Lieu", p.Venue)
	writeRow(&b, "Nombre d'invités", p.GuestCount)
	writeRow(&b, "Durée (heures)", p.DurationHours)
	writeRow(&b, "Budget", p.BudgetRange)
	b.WriteString("</ul><h3>Message</h3><p>")
	b.WriteString(escape(p.Message))
	b.WriteString("</p>")
	if p.SpecialRequests != "" {
		b.WriteString("<h3>Demandes spéciales</h3><p>")
		b.WriteString(escape(p.SpecialRequests))
		b.WriteString("</p>")
	}
	b.WriteString("<p><strong>Action requise : répondre au client sous 24-48h.</strong></p>")

	return &mailer.Message{
		From:    from,
		To:      []mail.Address{{Address: owner}},
		Subject: subject,
		HTML:    b.String(),
	}
}

// BuildClientMessage composes the confirmation sent back to the visitor.
func BuildClientMessage(p models.NotificationPayload, from mail.Address, replyTo string) *mailer.Message {
	var subject, kind string
	if p.Type == models.NotificationTypeBooking {
		subject = "Confirmation de votre demande de réservation"
		kind = "demande de réservation"
	} else {
		subject = "Confirmation de votre demande de devis"
		kind = "demande de devis"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Bonjour %s,</h2>", escape(p.Name))
	fmt.Fprintf(&b, "<p>Merci pour votre %s !</p>", kind)
	b.WriteString("<p>Votre message a bien été reçu et je vous recontacterai dans les " +
		"<strong>24 à 48 heures</strong> pour discuter de votre projet.</p>")
	b.WriteString("<h3>Récapitulatif de votre demande</h3><ul>")
	writeRow(&b, "Type d'événement", displayEventType(p.EventType))
	writeRow(&b, "Date", p.EventDate)
	writeRow(&b, "Lieu", p.Venue)
	b.WriteString("</ul><p>À très bientôt !</p>")

	return &mailer.Message{
		From:    from,
		To:      []mail.Address{{Name: p.Name, Address: p.Email}},
		Subject: subject,
		HTML:    b.String(),
		Headers: map[string]string{"Reply-To": replyTo},
	}
}

func writeRow(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<li><strong>%s :</strong> %s</li>", label, escape(value))
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
