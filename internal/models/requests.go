package models

import "time"

// Create requests use pointer fields so a missing key can be told apart
// from a zero value.

type CreateTeapotRequest struct {
	Name        *string         `json:"name"`
	Material    *TeapotMaterial `json:"material"`
	CapacityMl  *int            `json:"capacityMl"`
	Style       *TeapotStyle    `json:"style"`
	Description *string         `json:"description"`
}

// Build validates the request and returns a new teapot stamped with id and now.
func (r *CreateTeapotRequest) Build(id string, now time.Time) (*Teapot, error) {
	e := ValidationError{}
	t := &Teapot{
		ID:          id,
		Style:       StyleEnglish,
		Description: cloneString(r.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	requireField(e, "name", r.Name, &t.Name)
	requireField(e, "material", r.Material, &t.Material)
	requireField(e, "capacityMl", r.CapacityMl, &t.CapacityMl)
	if r.Style != nil {
		t.Style = *r.Style
	}
	t.validateInto(e)
	if err := e.errOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTeapotRequest is the PUT body; every field except description is required.
type UpdateTeapotRequest struct {
	Name        *string         `json:"name"`
	Material    *TeapotMaterial `json:"material"`
	CapacityMl  *int            `json:"capacityMl"`
	Style       *TeapotStyle    `json:"style"`
	Description *string         `json:"description"`
}

// Replace returns a full replacement of existing. Id and CreatedAt are kept.
func (r *UpdateTeapotRequest) Replace(existing *Teapot, now time.Time) (*Teapot, error) {
	e := ValidationError{}
	t := &Teapot{
		ID:          existing.ID,
		Description: cloneString(r.Description),
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   now,
	}
	requireField(e, "name", r.Name, &t.Name)
	requireField(e, "material", r.Material, &t.Material)
	requireField(e, "capacityMl", r.CapacityMl, &t.CapacityMl)
	requireField(e, "style", r.Style, &t.Style)
	t.validateInto(e)
	if err := e.errOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

type PatchTeapotRequest struct {
	Name        Optional[string]         `json:"name"`
	Material    Optional[TeapotMaterial] `json:"material"`
	CapacityMl  Optional[int]            `json:"capacityMl"`
	Style       Optional[TeapotStyle]    `json:"style"`
	Description Optional[string]         `json:"description"`
}

// Merge overlays the supplied fields on a copy of existing and validates the result.
func (r *PatchTeapotRequest) Merge(existing *Teapot, now time.Time) (*Teapot, error) {
	e := ValidationError{}
	t := existing.Clone()
	applyRequired(e, "name", r.Name, &t.Name)
	applyRequired(e, "material", r.Material, &t.Material)
	applyRequired(e, "capacityMl", r.CapacityMl, &t.CapacityMl)
	applyRequired(e, "style", r.Style, &t.Style)
	applyNullable(r.Description, &t.Description)
	t.UpdatedAt = now
	t.validateInto(e)
	if err := e.errOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

type CreateTeaRequest struct {
	Name             *string        `json:"name"`
	Type             *TeaType       `json:"type"`
	Origin           *string        `json:"origin"`
	CaffeineLevel    *CaffeineLevel `json:"caffeineLevel"`
	SteepTempCelsius *int           `json:"steepTempCelsius"`
	SteepTimeSeconds *int           `json:"steepTimeSeconds"`
	Description      *string        `json:"description"`
}

func (r *CreateTeaRequest) Build(id string, now time.Time) (*Tea, error) {
	e := ValidationError{}
	t := &Tea{
		ID:            id,
		Origin:        cloneString(r.Origin),
		CaffeineLevel: CaffeineMedium,
		Description:   cloneString(r.Description),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	requireField(e, "name", r.Name, &t.Name)
	requireField(e, "type", r.Type, &t.Type)
	requireField(e, "steepTempCelsius", r.SteepTempCelsius, &t.SteepTempCelsius)
	requireField(e, "steepTimeSeconds", r.SteepTimeSeconds, &t.SteepTimeSeconds)
	if r.CaffeineLevel != nil {
		t.CaffeineLevel = *r.CaffeineLevel
	}
	t.validateInto(e)
	if err := e.errOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

type UpdateTeaRequest struct {
	Name             *string        `json:"name"`
	Type             *TeaType       `json:"type"`
	Origin           *string        `json:"origin"`
	CaffeineLevel    *CaffeineLevel `json:"caffeineLevel"`
	SteepTempCelsius *int           `json:"steepTempCelsius"`
	SteepTimeSeconds *int           `json:"steepTimeSeconds"`
	Description      *string        `json:"description"`
}

func (r *UpdateTeaRequest) Replace(existing *Tea, now time.Time) (*Tea, error) {
	e := ValidationError{}
	t := &Tea{
		ID:          existing.ID,
		Origin:      cloneString(r.Origin),
		Description: cloneString(r.Description),
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   now,
	}
	requireField(e, "name", r.Name, &t.Name)
	requireField(e, "type", r.Type, &t.Type)
	requireField(e, "caffeineLevel", r.CaffeineLevel, &t.CaffeineLevel)
	requireField(e, "steepTempCelsius", r.SteepTempCelsius, &t.SteepTempCelsius)
	requireField(e, "steepTimeSeconds", r.SteepTimeSeconds, &t.SteepTimeSeconds)
	t.validateInto(e)
	if err := e.errOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

type PatchTeaRequest struct {
	Name             Optional[string]        `json:"name"`
	Type             Optional[TeaType]       `json:"type"`
	Origin           Optional[string]        `json:"origin"`
	CaffeineLevel    Optional[CaffeineLevel] `json:"caffeineLevel"`
	SteepTempCelsius Optional[int]           `json:"steepTempCelsius"`
	SteepTimeSeconds Optional[int]           `json:"steepTimeSeconds"`
	Description      Optional[string]        `json:"description"`
}

func (r *PatchTeaRequest) Merge(existing *Tea, now time.Time) (*Tea, error) {
	e := ValidationError{}
	t := existing.Clone()
	applyRequired(e, "name", r.Name, &t.Name)
	applyRequired(e, "type", r.Type, &t.Type)
	applyNullable(r.Origin, &t.Origin)
	applyRequired(e, "caffeineLevel", r.CaffeineLevel, &t.CaffeineLevel)
	applyRequired(e, "steepTempCelsius", r.SteepTempCelsius, &t.SteepTempCelsius)
	applyRequired(e, "steepTimeSeconds", r.SteepTimeSeconds, &t.SteepTimeSeconds)
	applyNullable(r.Description, &t.Description)
	t.UpdatedAt = now
	t.validateInto(e)
	if err := e.errOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

type CreateBrewRequest struct {
	TeapotID         *string `json:"teapotId"`
	TeaID            *string `json:"teaId"`
	WaterTempCelsius *int    `json:"waterTempCelsius"`
	Notes            *string `json:"notes"`
}

// Validate checks the body before any referenced records are looked up.
func (r *CreateBrewRequest) Validate() error {
	e := ValidationError{}
	if r.TeapotID == nil || *r.TeapotID == "" {
		e.add("teapotId", msgRequired)
	}
	if r.TeaID == nil || *r.TeaID == "" {
		e.add("teaId", msgRequired)
	}
	if r.WaterTempCelsius != nil {
		checkRange(e, "waterTempCelsius", *r.WaterTempCelsius, MinTempCelsius, MaxTempCelsius)
	}
	checkOptionalLength(e, "notes", r.Notes, MaxBrewNotesLength)
	return e.errOrNil()
}

// Build returns a new brew in the preparing state. When no water temperature
// was supplied the tea's steep temperature is used. Call Validate first.
func (r *CreateBrewRequest) Build(id string, now time.Time, tea *Tea) *Brew {
	waterTemp := tea.SteepTempCelsius
	if r.WaterTempCelsius != nil {
		waterTemp = *r.WaterTempCelsius
	}
	return &Brew{
		ID:               id,
		TeapotID:         *r.TeapotID,
		TeaID:            tea.ID,
		Status:           BrewPreparing,
		WaterTempCelsius: waterTemp,
		Notes:            cloneString(r.Notes),
		StartedAt:        now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

type PatchBrewRequest struct {
	Status      Optional[BrewStatus] `json:"status"`
	Notes       Optional[string]     `json:"notes"`
	CompletedAt Optional[time.Time]  `json:"completedAt"`
}

func (r *PatchBrewRequest) Merge(existing *Brew, now time.Time) (*Brew, error) {
	e := ValidationError{}
	b := existing.Clone()
	applyRequired(e, "status", r.Status, &b.Status)
	applyNullable(r.Notes, &b.Notes)
	applyNullable(r.CompletedAt, &b.CompletedAt)
	if b.CompletedAt != nil {
		at := b.CompletedAt.UTC()
		b.CompletedAt = &at
	}
	b.UpdatedAt = now
	b.validateInto(e)
	if err := e.errOrNil(); err != nil {
		return nil, err
	}
	return b, nil
}

type CreateSteepRequest struct {
	DurationSeconds *int    `json:"durationSeconds"`
	Rating          *int    `json:"rating"`
	Notes           *string `json:"notes"`
}

// Build returns a steep for brewID. SteepNumber is left zero; the store
// assigns it when the steep is inserted.
func (r *CreateSteepRequest) Build(id, brewID string, now time.Time) (*Steep, error) {
	e := ValidationError{}
	s := &Steep{
		ID:        id,
		BrewID:    brewID,
		Notes:     cloneString(r.Notes),
		CreatedAt: now,
	}
	requireField(e, "durationSeconds", r.DurationSeconds, &s.DurationSeconds)
	if r.Rating != nil {
		rating := *r.Rating
		s.Rating = &rating
	}
	s.validateInto(e)
	if err := e.errOrNil(); err != nil {
		return nil, err
	}
	return s, nil
}

func requireField[T any](e ValidationError, field string, src *T, dst *T) {
	if src == nil {
		e.add(field, msgRequired)
		return
	}
	*dst = *src
}
