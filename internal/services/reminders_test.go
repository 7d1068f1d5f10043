package services

import (
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/agenda/internal/models"
)

var bogota = time.FixedZone("America/Bogota", -5*60*60)

func mondayClass() models.Entry {
	return models.Entry{
		ID:        1,
		Name:      "Cálculo",
		Type:      models.EntryTypeClase,
		Day:       "lunes",
		StartTime: "08:00",
		Email:     "ana@unadvirtual.edu.co",
	}
}

func triggersOf(reminders []Reminder) []string {
	triggers := make([]string, 0, len(reminders))
	for _, reminder := range reminders {
		triggers = append(triggers, reminder.Trigger)
	}
	return triggers
}

func TestParseWeekdayAcceptsCaseAndUnaccentedAliases(t *testing.T) {
	cases := map[string]time.Weekday{
		"lunes":     time.Monday,
		"LUNES":     time.Monday,
		" Martes ":  time.Tuesday,
		"miércoles": time.Wednesday,
		"Miercoles": time.Wednesday,
		"sábado":    time.Saturday,
		"sabado":    time.Saturday,
		"domingo":   time.Sunday,
	}
	for raw, expected := range cases {
		got, ok := ParseWeekday(raw)
		if !ok || got != expected {
			t.Fatalf("ParseWeekday(%q) = %v, %v; want %v", raw, got, ok, expected)
		}
	}

	for _, raw := range []string{"", "monday", "lun"} {
		if _, ok := ParseWeekday(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestParseClock(t *testing.T) {
	hour, minute, ok := ParseClock("07:05")
	if !ok || hour != 7 || minute != 5 {
		t.Fatalf("expected 07:05, got %d:%d ok=%v", hour, minute, ok)
	}
	for _, raw := range []string{"", "7", "25:00", "08:60", "ocho"} {
		if _, _, ok := ParseClock(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestNextOccurrenceRollsToNextWeekAfterAnchorPassed(t *testing.T) {
	now := time.Date(2026, time.October, 19, 9, 0, 0, 0, bogota) // Monday

	next, ok := NextOccurrence(now, "lunes", "08:00")
	if !ok {
		t.Fatal("expected occurrence")
	}
	want := time.Date(2026, time.October, 26, 8, 0, 0, 0, bogota)
	if !next.Equal(want) {
		t.Fatalf("expected %s, got %s", want, next)
	}
}

func TestNextOccurrenceSameDayBeforeAnchor(t *testing.T) {
	now := time.Date(2026, time.October, 19, 7, 30, 0, 0, bogota)

	next, ok := NextOccurrence(now, "lunes", "08:00")
	if !ok {
		t.Fatal("expected occurrence")
	}
	want := time.Date(2026, time.October, 19, 8, 0, 0, 0, bogota)
	if !next.Equal(want) {
		t.Fatalf("expected %s, got %s", want, next)
	}
}

func TestNextOccurrenceCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2026, time.October, 30, 10, 0, 0, 0, bogota) // Friday

	next, ok := NextOccurrence(now, "martes", "14:00")
	if !ok {
		t.Fatal("expected occurrence")
	}
	want := time.Date(2026, time.November, 3, 14, 0, 0, 0, bogota)
	if !next.Equal(want) {
		t.Fatalf("expected %s, got %s", want, next)
	}
}

func TestStartTriggerFiresOnlyAtAnchorMinute(t *testing.T) {
	entries := []models.Entry{mondayClass()}

	atStart := EvaluateReminders(time.Date(2026, time.October, 19, 8, 0, 0, 0, bogota), entries, ReminderOptions{})
	if len(atStart) != 1 || atStart[0].Trigger != models.TriggerStart {
		t.Fatalf("expected a single start reminder, got %v", triggersOf(atStart))
	}

	late := EvaluateReminders(time.Date(2026, time.October, 19, 8, 1, 0, 0, bogota), entries, ReminderOptions{})
	if len(late) != 0 {
		t.Fatalf("expected no reminders at 08:01, got %v", triggersOf(late))
	}
}

func TestFiveDayTriggerRequiresExactMinute(t *testing.T) {
	entries := []models.Entry{mondayClass()}

	due := EvaluateReminders(time.Date(2026, time.October, 21, 8, 0, 0, 0, bogota), entries, ReminderOptions{})
	if len(due) != 1 || due[0].Trigger != models.TriggerFiveDays {
		t.Fatalf("expected a single five-day reminder, got %v", triggersOf(due))
	}
	if want := time.Date(2026, time.October, 26, 8, 0, 0, 0, bogota); !due[0].Occurrence.Equal(want) {
		t.Fatalf("expected occurrence %s, got %s", want, due[0].Occurrence)
	}

	for _, off := range []time.Time{
		time.Date(2026, time.October, 21, 7, 59, 0, 0, bogota),
		time.Date(2026, time.October, 21, 8, 1, 0, 0, bogota),
	} {
		if got := EvaluateReminders(off, entries, ReminderOptions{}); len(got) != 0 {
			t.Fatalf("expected nothing at %s, got %v", off.Format("15:04"), triggersOf(got))
		}
	}
}

func TestOneDayTrigger(t *testing.T) {
	due := EvaluateReminders(time.Date(2026, time.October, 25, 8, 0, 0, 0, bogota), []models.Entry{mondayClass()}, ReminderOptions{})
	if len(due) != 1 || due[0].Trigger != models.TriggerOneDay {
		t.Fatalf("expected a single one-day reminder, got %v", triggersOf(due))
	}
	if !strings.Contains(due[0].Message.Subject, "en 1 día") {
		t.Fatalf("unexpected subject %q", due[0].Message.Subject)
	}
}

func TestMateriaUsesFinishDayAndTime(t *testing.T) {
	entry := models.Entry{
		ID:          7,
		Name:        "Tarea 2",
		Type:        models.EntryTypeMateria,
		Day:         "lunes",
		StartTime:   "08:00",
		Email:       "ana@unadvirtual.edu.co",
		SubjectName: "Física",
		FinishDay:   "viernes",
		FinishTime:  "23:59",
	}

	// Sunday 23:59 is five days before Friday 23:59.
	due := EvaluateReminders(time.Date(2026, time.October, 18, 23, 59, 0, 0, bogota), []models.Entry{entry}, ReminderOptions{})
	if len(due) != 1 || due[0].Trigger != models.TriggerFiveDays {
		t.Fatalf("expected a five-day reminder, got %v", triggersOf(due))
	}
	text := due[0].Message.Text
	if !strings.HasPrefix(text, "Buenas noches,") {
		t.Fatalf("expected evening salutation, got %q", text)
	}
	if !strings.Contains(text, "Día de finalización: viernes (23/10/2026)") {
		t.Fatalf("expected finish day with date, got %q", text)
	}

	if got := EvaluateReminders(time.Date(2026, time.October, 19, 8, 0, 0, 0, bogota), []models.Entry{entry}, ReminderOptions{}); len(got) != 0 {
		t.Fatalf("expected the day/startTime pair to be ignored, got %v", triggersOf(got))
	}
}

func TestEvaluatorSkipsUnusableAnchors(t *testing.T) {
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, bogota)
	entries := []models.Entry{
		{ID: 1, Name: "a", Type: models.EntryTypeClase, Day: "monday", StartTime: "08:00", Email: "a@b.co"},
		{ID: 2, Name: "b", Type: models.EntryTypeClase, Day: "lunes", StartTime: "", Email: "a@b.co"},
		{ID: 3, Name: "c", Type: models.EntryTypeClase, Day: "lunes", StartTime: "8h", Email: "a@b.co"},
		{ID: 4, Name: "d", Type: models.EntryTypeMateria, Day: "lunes", StartTime: "08:00", Email: "a@b.co"},
	}

	if got := EvaluateReminders(now, entries, ReminderOptions{}); len(got) != 0 {
		t.Fatalf("expected no reminders, got %v", triggersOf(got))
	}
}

func TestStartReminderMessage(t *testing.T) {
	entry := models.Entry{ID: 3, Name: "Sesión 4", Type: models.EntryTypeCipa, Day: "Miércoles", StartTime: "18:30", Email: "ana@unadvirtual.edu.co"}

	due := EvaluateReminders(time.Date(2026, time.October, 21, 18, 30, 0, 0, bogota), []models.Entry{entry}, ReminderOptions{From: "agenda@example.org"})
	if len(due) != 1 {
		t.Fatalf("expected one reminder, got %v", triggersOf(due))
	}
	message := due[0].Message
	if message.From != "agenda@example.org" || message.To != entry.Email {
		t.Fatalf("unexpected envelope %+v", message)
	}
	if message.Subject != "Recordatorio de Cipa: Sesión 4" {
		t.Fatalf("unexpected subject %q", message.Subject)
	}
	if message.Text != `Tu cipa "Sesión 4" comienza ahora (Miércoles 18:30).` {
		t.Fatalf("unexpected text %q", message.Text)
	}
}

func TestAdvanceReminderWordingByType(t *testing.T) {
	now := time.Date(2026, time.October, 21, 8, 0, 0, 0, bogota)

	class := mondayClass()
	due := EvaluateReminders(now, []models.Entry{class}, ReminderOptions{})
	if len(due) != 1 {
		t.Fatalf("expected one reminder, got %v", triggersOf(due))
	}
	if due[0].Message.From != "noreply@example.com" {
		t.Fatalf("expected default sender, got %q", due[0].Message.From)
	}
	if due[0].Message.Subject != "Recordatorio: Clase en 5 días (Cálculo)" {
		t.Fatalf("unexpected subject %q", due[0].Message.Subject)
	}
	if !strings.HasPrefix(due[0].Message.Text, "ana, falta pocos días para tu clase en Teams.") {
		t.Fatalf("expected email local part as recipient, got %q", due[0].Message.Text)
	}

	named := EvaluateReminders(now, []models.Entry{class}, ReminderOptions{RecipientName: "Ana María"})
	if !strings.HasPrefix(named[0].Message.Text, "Ana María, ") {
		t.Fatalf("expected configured recipient name, got %q", named[0].Message.Text)
	}

	other := class
	other.Type = "taller"
	due = EvaluateReminders(now, []models.Entry{other}, ReminderOptions{})
	if due[0].Message.Subject != "Recordatorio: Taller en 5 días (Cálculo)" {
		t.Fatalf("unexpected subject %q", due[0].Message.Subject)
	}
	if !strings.HasPrefix(due[0].Message.Text, "Buenos días,\n\nQuiero recordarte que faltan pocos días para tu taller.") {
		t.Fatalf("unexpected text %q", due[0].Message.Text)
	}
}

func TestReminderSalutation(t *testing.T) {
	cases := map[int]string{
		0:  "Buenas noches",
		5:  "Buenas noches",
		6:  "Buenos días",
		11: "Buenos días",
		12: "Buenas tardes",
		17: "Buenas tardes",
		18: "Buenas noches",
		23: "Buenas noches",
	}
	for hour, expected := range cases {
		if got := reminderSalutation(hour); got != expected {
			t.Fatalf("hour %d: expected %q, got %q", hour, expected, got)
		}
	}
}
