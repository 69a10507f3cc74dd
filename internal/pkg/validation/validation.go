package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ssf-backend/internal/domain"
)

// DefaultSafeHours applies when a listing draft omits safeHours.
const DefaultSafeHours = 3.0

// DefaultWindow is the availability window used when a draft omits availableUntil.
const DefaultWindow = 2 * time.Hour

// Errors collects field-level validation failures. It matches domain.ErrInvalidInput.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", domain.ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *Errors) Unwrap() error { return domain.ErrInvalidInput }

func (e *Errors) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ListingDraft fills defaults into d and checks it. availableFrom defaults to now,
// availableUntil to availableFrom+2h and safeHours to 3.
func ListingDraft(d *domain.ListingDraft, now time.Time) error {
	var errs Errors
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	d.Location = strings.TrimSpace(d.Location)
	if d.AvailableFrom.IsZero() {
		d.AvailableFrom = now
	}
	if d.AvailableUntil.IsZero() {
		d.AvailableUntil = d.AvailableFrom.Add(DefaultWindow)
	}
	if d.SafeHours == 0 {
		d.SafeHours = DefaultSafeHours
	}
	if d.Freshness == "" {
		d.Freshness = domain.FreshnessAmbient
	}

	if len([]rune(d.Title)) <= 1 {
		errs.add("title", "must be at least 2 characters")
	}
	if d.Category == "" {
		errs.add("category", "is required")
	}
	if d.Location == "" {
		errs.add("location", "is required")
	}
	if d.Quantity <= 0 {
		errs.add("quantity", "must be greater than 0")
	}
	if !d.Unit.Valid() {
		errs.add("unit", "must be one of kg, plates, liters, pieces")
	}
	if !d.Freshness.Valid() {
		errs.add("freshness", "must be one of Hot, Warm, Chilled, Ambient")
	}
	if d.SafeHours < 0 {
		errs.add("safeHours", "must be greater than 0")
	}
	if !d.AvailableUntil.After(d.AvailableFrom) {
		errs.add("availableUntil", "must be after availableFrom")
	}
	return errs.orNil()
}

// Claimer checks a claim request.
func Claimer(c *domain.Claimer) error {
	var errs Errors
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		errs.add("name", "is required")
	}
	if c.Role != nil && !c.Role.Valid() {
		errs.add("role", "must be one of Student, Staff, NGO")
	}
	if c.Quantity != nil && *c.Quantity <= 0 {
		errs.add("quantity", "must be greater than 0")
	}
	return errs.orNil()
}

func EventDraft(d *domain.EventDraft) error {
	var errs Errors
	d.Name = strings.TrimSpace(d.Name)
	d.Location = strings.TrimSpace(d.Location)
	if d.Name == "" {
		errs.add("name", "is required")
	}
	if d.Location == "" {
		errs.add("location", "is required")
	}
	if d.EndAt.IsZero() {
		errs.add("endAt", "is required")
	}
	return errs.orNil()
}

// SubscriptionDraft checks d. Role defaults to Student.
func SubscriptionDraft(d *domain.SubscriptionDraft) error {
	var errs Errors
	d.Name = strings.TrimSpace(d.Name)
	if d.Role == "" {
		d.Role = domain.RoleStudent
	}
	if d.Name == "" {
		errs.add("name", "is required")
	}
	if !d.Role.Valid() {
		errs.add("role", "must be one of Student, Staff, NGO")
	}
	return errs.orNil()
}

func Settings(s *domain.Settings) error {
	var errs Errors
	if s.Impact.KgCO2PerKg < 0 {
		errs.add("impact.kgCO2PerKg", "must not be negative")
	}
	if s.Impact.LitersWaterPerKg < 0 {
		errs.add("impact.litersWaterPerKg", "must not be negative")
	}
	if s.Impact.AvgServingKg <= 0 {
		errs.add("impact.avgServingKg", "must be greater than 0")
	}
	if s.RemindBeforeMinutes < 0 {
		errs.add("remindBeforeMinutes", "must not be negative")
	}
	if !s.UserProfile.Role.Valid() {
		errs.add("userProfile.role", "must be one of Student, Staff, NGO")
	}
	return errs.orNil()
}
