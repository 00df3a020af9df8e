package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

const layout = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <div style="background-color: #16A34A; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">
        <h1>{{.Heading}}</h1>
      </div>
      <div style="background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px;">
        {{range .Paragraphs}}<p>{{.}}</p>{{end}}
        {{if .Details}}
        <div style="margin: 20px 0; padding: 20px; background-color: white; border-radius: 5px;">
          {{range .Details}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}
        </div>
        {{end}}
      </div>
      <p style="text-align: center; margin-top: 30px; color: #777; font-size: 12px;">Padel Court Booking System</p>
    </div>
  </body>
</html>`

var page = template.Must(template.New("mail").Parse(layout))

type detail struct {
	Label string
	Value string
}

type content struct {
	Heading    string
	Paragraphs []string
	Details    []detail
}

func render(to, subject string, c content) *Message {
	var html bytes.Buffer
	if err := page.Execute(&html, c); err != nil {
		// the template is static, a failure here is a programming error
		panic(err)
	}

	var text bytes.Buffer
	for _, p := range c.Paragraphs {
		text.WriteString(p + "\n\n")
	}
	for _, d := range c.Details {
		fmt.Fprintf(&text, "%s: %s\n", d.Label, d.Value)
	}

	return &Message{To: to, Subject: subject, HTML: html.String(), Text: text.String()}
}

// Slot describes a booked slot in human form.
type Slot struct {
	Court string
	Date  string
	Start string
	End   string
}

func (s Slot) details() []detail {
	return []detail{
		{"Court", s.Court},
		{"Date", s.Date},
		{"Time", s.Start + " - " + s.End},
	}
}

func BookingConfirmation(to, name string, slot Slot) *Message {
	return render(to, fmt.Sprintf("Booking Confirmed - %s on %s", slot.Court, slot.Date), content{
		Heading:    "Booking Confirmed",
		Paragraphs: []string{fmt.Sprintf("Dear %s,", name), "Your court booking has been confirmed."},
		Details:    slot.details(),
	})
}

func AdminBookingNotification(to, playerName string, slot Slot) *Message {
	return render(to, fmt.Sprintf("New Booking - %s booked %s", playerName, slot.Court), content{
		Heading:    "New Booking",
		Paragraphs: []string{fmt.Sprintf("%s has booked a court.", playerName)},
		Details:    append([]detail{{"Player", playerName}}, slot.details()...),
	})
}

func ContactAdminNotification(to, name, email, subject, body string) *Message {
	return render(to, "New Contact Form Message: "+subject, content{
		Heading:    "New Contact Form Submission",
		Paragraphs: []string{"You have received a new message from the contact form:"},
		Details: []detail{
			{"Name", name},
			{"Email", email},
			{"Subject", subject},
			{"Message", body},
		},
	})
}

func ContactConfirmation(to, name, subject, body string) *Message {
	return render(to, "We Have Received Your Message - Padel Court Booking System", content{
		Heading: "Thank You for Contacting Us!",
		Paragraphs: []string{
			fmt.Sprintf("Dear %s,", name),
			"We have received your message and will get back to you as soon as possible.",
			"For your reference, here's a copy of your message:",
		},
		Details: []detail{
			{"Subject", subject},
			{"Message", body},
		},
	})
}
