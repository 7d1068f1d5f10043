package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/terraincognita07/agenda/internal/mailer"
	"github.com/terraincognita07/agenda/internal/models"
)

const defaultReminderFrom = "noreply@example.com"

func reminderTypeLabel(entryType string) string {
	switch entryType {
	case models.EntryTypeClase, "":
		return "Clase"
	case models.EntryTypeCipa:
		return "Cipa"
	case models.EntryTypeMateria:
		return "Materia"
	}
	first, size := utf8.DecodeRuneInString(entryType)
	return string(unicode.ToUpper(first)) + entryType[size:]
}

func reminderSalutation(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "Buenos días"
	case hour >= 12 && hour < 18:
		return "Buenas tardes"
	default:
		return "Buenas noches"
	}
}

func reminderRecipientName(entry models.Entry, options ReminderOptions) string {
	if name := strings.TrimSpace(options.RecipientName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(strings.TrimSpace(entry.Email), "@")
	return local
}

func reminderFrom(options ReminderOptions) string {
	if from := strings.TrimSpace(options.From); from != "" {
		return from
	}
	return defaultReminderFrom
}

func composeAdvanceReminder(now time.Time, entry models.Entry, next time.Time, daysBefore int, options ReminderOptions) mailer.Message {
	day, clock := entry.Anchor()
	label := reminderTypeLabel(entry.Type)
	salutation := reminderSalutation(now.Hour())
	date := next.Format("02/01/2006")

	var text string
	switch entry.Type {
	case models.EntryTypeMateria:
		text = fmt.Sprintf("%s,\n\nLa actividad de la materia \"%s\" está pronto a finalizar, por favor termina pronto.\n\nDía de finalización: %s (%s)\nHora de finalización: %s",
			salutation, entry.Name, day, date, clock)
	case models.EntryTypeClase:
		text = fmt.Sprintf("%s, falta pocos días para tu clase en Teams.\n\nMateria: %s\nDía: %s (%s)\nHora: %s",
			reminderRecipientName(entry, options), entry.Name, day, date, clock)
	case models.EntryTypeCipa:
		text = fmt.Sprintf("Hola %s, tu actividad CIPA está próxima.\n\nActividad: %s\nDía: %s (%s)\nHora: %s",
			reminderRecipientName(entry, options), entry.Name, day, date, clock)
	default:
		text = fmt.Sprintf("%s,\n\nQuiero recordarte que faltan pocos días para tu %s. No lo olvides.\n\nMateria: %s\nDía: %s (%s)\nHora: %s",
			salutation, strings.ToLower(label), entry.Name, day, date, clock)
	}

	unit := "días"
	if daysBefore == 1 {
		unit = "día"
	}
	return mailer.Message{
		From:    reminderFrom(options),
		To:      entry.Email,
		Subject: fmt.Sprintf("Recordatorio: %s en %d %s (%s)", label, daysBefore, unit, entry.Name),
		Text:    text,
	}
}

func composeStartReminder(entry models.Entry, options ReminderOptions) mailer.Message {
	day, clock := entry.Anchor()
	label := reminderTypeLabel(entry.Type)
	return mailer.Message{
		From:    reminderFrom(options),
		To:      entry.Email,
		Subject: fmt.Sprintf("Recordatorio de %s: %s", label, entry.Name),
		Text:    fmt.Sprintf("Tu %s \"%s\" comienza ahora (%s %s).", strings.ToLower(label), entry.Name, day, clock),
	}
}
