package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/agenda/internal/models"
)

var (
	ErrEntryStoreWrite  = errors.New("entry store write failed")
	ErrEntryStoreRead   = errors.New("entry store read failed")
	ErrEntryStoreDelete = errors.New("entry store delete failed")
)

const (
	MessageMissingFields     = "Faltan campos obligatorios."
	MessageMateriaIncomplete = "Materia requiere nombre, día y hora de finalización."
	MessageSessionStartTime  = "Clase o cipa requiere hora de inicio."
)

// ValidationError carries a message meant for the person filling the form.
type ValidationError struct {
	Message string
}

func (err *ValidationError) Error() string {
	return err.Message
}

type EntryRepository interface {
	List(ctx context.Context) ([]models.Entry, error)
	Create(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id uint) error
}

// EntryInput is the create payload. Validation runs on the normalized copy.
type EntryInput struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Day         string `json:"day" validate:"required"`
	StartTime   string `json:"startTime" validate:"required_if=Type clase,required_if=Type cipa"`
	EndTime     string `json:"endTime"`
	Email       string `json:"email" validate:"required"`
	SubjectName string `json:"subjectName" validate:"required_if=Type materia"`
	FinishDay   string `json:"finishDay" validate:"required_if=Type materia"`
	FinishTime  string `json:"finishTime" validate:"required_if=Type materia"`
}

type EntryService struct {
	entries  EntryRepository
	validate *validator.Validate
}

func NewEntryService(entries EntryRepository) *EntryService {
	return &EntryService{
		entries:  entries,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (service *EntryService) List(ctx context.Context) ([]models.Entry, error) {
	entries, err := service.entries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntryStoreRead, err)
	}
	return entries, nil
}

// Create validates input, stores the entry and returns the full list.
func (service *EntryService) Create(ctx context.Context, input EntryInput) ([]models.Entry, error) {
	input = NormalizeEntryInput(input)
	if err := service.validateInput(input); err != nil {
		return nil, err
	}

	entry := buildEntry(input)
	if err := service.entries.Create(ctx, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntryStoreWrite, err)
	}
	return service.List(ctx)
}

// Delete removes the entry if present and returns the remaining list. A
// missing id is not an error.
func (service *EntryService) Delete(ctx context.Context, id uint) ([]models.Entry, error) {
	if err := service.entries.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntryStoreDelete, err)
	}
	return service.List(ctx)
}

func (service *EntryService) validateInput(input EntryInput) error {
	err := service.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return &ValidationError{Message: MessageMissingFields}
	}
	return &ValidationError{Message: entryValidationMessage(fieldErrors)}
}

// entryValidationMessage picks the first applicable rule: base fields, then
// subject deadline fields, then session start time.
func entryValidationMessage(fieldErrors validator.ValidationErrors) string {
	failed := make(map[string]bool, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		failed[fieldError.StructField()] = true
	}

	switch {
	case failed["Name"] || failed["Type"] || failed["Day"] || failed["Email"]:
		return MessageMissingFields
	case failed["SubjectName"] || failed["FinishDay"] || failed["FinishTime"]:
		return MessageMateriaIncomplete
	case failed["StartTime"]:
		return MessageSessionStartTime
	default:
		return MessageMissingFields
	}
}

// NormalizeEntryInput trims every field and lowercases the type.
func NormalizeEntryInput(input EntryInput) EntryInput {
	return EntryInput{
		Name:        strings.TrimSpace(input.Name),
		Type:        strings.ToLower(strings.TrimSpace(input.Type)),
		Day:         strings.TrimSpace(input.Day),
		StartTime:   strings.TrimSpace(input.StartTime),
		EndTime:     strings.TrimSpace(input.EndTime),
		Email:       strings.TrimSpace(input.Email),
		SubjectName: strings.TrimSpace(input.SubjectName),
		FinishDay:   strings.TrimSpace(input.FinishDay),
		FinishTime:  strings.TrimSpace(input.FinishTime),
	}
}

func buildEntry(input EntryInput) models.Entry {
	entry := models.Entry{
		Name:      input.Name,
		Type:      input.Type,
		Day:       input.Day,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Email:     input.Email,
	}

	switch {
	case input.Type == models.EntryTypeMateria:
		entry.StartTime = ""
		entry.EndTime = ""
		entry.SubjectName = input.SubjectName
		entry.FinishDay = input.FinishDay
		entry.FinishTime = input.FinishTime
	case models.RequiresStartTime(input.Type):
		entry.EndTime = ""
	}
	return entry
}
