package mail

import (
	"strings"
	"testing"
)

func TestBookingConfirmation(t *testing.T) {
	msg := BookingConfirmation("p@test.com", "John Doe", Slot{Court: "Blue", Date: "Jun 1, 2025", Start: "14:00", End: "15:30"})

	if msg.To != "p@test.com" {
		t.Errorf("To = %q", msg.To)
	}
	if msg.Subject != "Booking Confirmed - Blue on Jun 1, 2025" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	for _, want := range []string{"Dear John Doe,", "14:00 - 15:30"} {
		if !strings.Contains(msg.HTML, want) || !strings.Contains(msg.Text, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestContactEscapesHTML(t *testing.T) {
	msg := ContactAdminNotification("admin@test.com", "Eve", "eve@test.com", "Hi", "<script>alert(1)</script>")

	if strings.Contains(msg.HTML, "<script>") {
		t.Error("html body must escape user input")
	}
	if !strings.Contains(msg.Text, "<script>alert(1)</script>") {
		t.Error("text body keeps the raw message")
	}
}
