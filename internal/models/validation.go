package models

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field bounds shared by request validation and merged-entity validation.
const (
	MaxNameLength              = 100
	MaxTeapotDescriptionLength = 500
	MaxTeaDescriptionLength    = 1000
	MaxOriginLength            = 100
	MaxBrewNotesLength         = 500
	MaxSteepNotesLength        = 200

	MinCapacityMl = 1
	MaxCapacityMl = 5000

	MinTempCelsius = 60
	MaxTempCelsius = 100

	MinSteepTimeSeconds = 1
	MaxSteepTimeSeconds = 600

	MinDurationSeconds = 1

	MinRating = 1
	MaxRating = 5
)

const msgRequired = "field required"

// ValidationError maps a JSON field name to a human readable problem.
// The first problem recorded for a field wins.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationError) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// errOrNil keeps a nil ValidationError from turning into a non-nil error.
func (e ValidationError) errOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func checkLength(e ValidationError, field, s string, min, max int) {
	n := utf8.RuneCountInString(s)
	switch {
	case n < min && min == 1:
		e.add(field, "must not be empty")
	case n < min || n > max:
		e.add(field, fmt.Sprintf("must be between %d and %d characters", min, max))
	}
}

func checkOptionalLength(e ValidationError, field string, s *string, max int) {
	if s == nil {
		return
	}
	if utf8.RuneCountInString(*s) > max {
		e.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func checkRange(e ValidationError, field string, v, min, max int) {
	if v < min || v > max {
		e.add(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
}

func checkMin(e ValidationError, field string, v, min int) {
	if v < min {
		e.add(field, fmt.Sprintf("must be at least %d", min))
	}
}

func checkEnum[T ~string](e ValidationError, field string, valid bool, options []T) {
	if !valid {
		e.add(field, OneOf(options))
	}
}

// OneOf formats the message reported for a value outside a closed set.
func OneOf[T ~string](options []T) string {
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = string(o)
	}
	return "must be one of: " + strings.Join(names, ", ")
}

// Validate checks every field constraint of a fully built teapot.
func (t *Teapot) Validate() error {
	e := ValidationError{}
	t.validateInto(e)
	return e.errOrNil()
}

func (t *Teapot) validateInto(e ValidationError) {
	checkLength(e, "name", t.Name, 1, MaxNameLength)
	checkEnum(e, "material", t.Material.Valid(), TeapotMaterials)
	checkRange(e, "capacityMl", t.CapacityMl, MinCapacityMl, MaxCapacityMl)
	checkEnum(e, "style", t.Style.Valid(), TeapotStyles)
	checkOptionalLength(e, "description", t.Description, MaxTeapotDescriptionLength)
}

func (t *Tea) Validate() error {
	e := ValidationError{}
	t.validateInto(e)
	return e.errOrNil()
}

func (t *Tea) validateInto(e ValidationError) {
	checkLength(e, "name", t.Name, 1, MaxNameLength)
	checkEnum(e, "type", t.Type.Valid(), TeaTypes)
	checkOptionalLength(e, "origin", t.Origin, MaxOriginLength)
	checkEnum(e, "caffeineLevel", t.CaffeineLevel.Valid(), CaffeineLevels)
	checkRange(e, "steepTempCelsius", t.SteepTempCelsius, MinTempCelsius, MaxTempCelsius)
	checkRange(e, "steepTimeSeconds", t.SteepTimeSeconds, MinSteepTimeSeconds, MaxSteepTimeSeconds)
	checkOptionalLength(e, "description", t.Description, MaxTeaDescriptionLength)
}

func (b *Brew) Validate() error {
	e := ValidationError{}
	b.validateInto(e)
	return e.errOrNil()
}

func (b *Brew) validateInto(e ValidationError) {
	if b.TeapotID == "" {
		e.add("teapotId", msgRequired)
	}
	if b.TeaID == "" {
		e.add("teaId", msgRequired)
	}
	checkEnum(e, "status", b.Status.Valid(), BrewStatuses)
	checkRange(e, "waterTempCelsius", b.WaterTempCelsius, MinTempCelsius, MaxTempCelsius)
	checkOptionalLength(e, "notes", b.Notes, MaxBrewNotesLength)
}

func (s *Steep) Validate() error {
	e := ValidationError{}
	s.validateInto(e)
	return e.errOrNil()
}

func (s *Steep) validateInto(e ValidationError) {
	if s.BrewID == "" {
		e.add("brewId", msgRequired)
	}
	checkMin(e, "durationSeconds", s.DurationSeconds, MinDurationSeconds)
	if s.Rating != nil {
		checkRange(e, "rating", *s.Rating, MinRating, MaxRating)
	}
	checkOptionalLength(e, "notes", s.Notes, MaxSteepNotesLength)
}
