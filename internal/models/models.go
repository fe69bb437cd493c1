package models

import "time"

type TeapotMaterial string

const (
	MaterialCeramic        TeapotMaterial = "ceramic"
	MaterialCastIron       TeapotMaterial = "cast-iron"
	MaterialGlass          TeapotMaterial = "glass"
	MaterialPorcelain      TeapotMaterial = "porcelain"
	MaterialClay           TeapotMaterial = "clay"
	MaterialStainlessSteel TeapotMaterial = "stainless-steel"
)

// TeapotMaterials lists every material in declaration order.
var TeapotMaterials = []TeapotMaterial{
	MaterialCeramic, MaterialCastIron, MaterialGlass,
	MaterialPorcelain, MaterialClay, MaterialStainlessSteel,
}

func (m TeapotMaterial) Valid() bool {
	switch m {
	case MaterialCeramic, MaterialCastIron, MaterialGlass,
		MaterialPorcelain, MaterialClay, MaterialStainlessSteel:
		return true
	}
	return false
}

type TeapotStyle string

const (
	StyleKyusu    TeapotStyle = "kyusu"
	StyleGaiwan   TeapotStyle = "gaiwan"
	StyleEnglish  TeapotStyle = "english"
	StyleMoroccan TeapotStyle = "moroccan"
	StyleTurkish  TeapotStyle = "turkish"
	StyleYixing   TeapotStyle = "yixing"
)

var TeapotStyles = []TeapotStyle{
	StyleKyusu, StyleGaiwan, StyleEnglish, StyleMoroccan, StyleTurkish, StyleYixing,
}

func (s TeapotStyle) Valid() bool {
	switch s {
	case StyleKyusu, StyleGaiwan, StyleEnglish, StyleMoroccan, StyleTurkish, StyleYixing:
		return true
	}
	return false
}

type TeaType string

const (
	TeaGreen   TeaType = "green"
	TeaBlack   TeaType = "black"
	TeaOolong  TeaType = "oolong"
	TeaWhite   TeaType = "white"
	TeaPuerh   TeaType = "puerh"
	TeaHerbal  TeaType = "herbal"
	TeaRooibos TeaType = "rooibos"
)

var TeaTypes = []TeaType{
	TeaGreen, TeaBlack, TeaOolong, TeaWhite, TeaPuerh, TeaHerbal, TeaRooibos,
}

func (t TeaType) Valid() bool {
	switch t {
	case TeaGreen, TeaBlack, TeaOolong, TeaWhite, TeaPuerh, TeaHerbal, TeaRooibos:
		return true
	}
	return false
}

type CaffeineLevel string

const (
	CaffeineNone   CaffeineLevel = "none"
	CaffeineLow    CaffeineLevel = "low"
	CaffeineMedium CaffeineLevel = "medium"
	CaffeineHigh   CaffeineLevel = "high"
)

var CaffeineLevels = []CaffeineLevel{
	CaffeineNone, CaffeineLow, CaffeineMedium, CaffeineHigh,
}

func (c CaffeineLevel) Valid() bool {
	switch c {
	case CaffeineNone, CaffeineLow, CaffeineMedium, CaffeineHigh:
		return true
	}
	return false
}

type BrewStatus string

const (
	BrewPreparing BrewStatus = "preparing"
	BrewSteeping  BrewStatus = "steeping"
	BrewReady     BrewStatus = "ready"
	BrewServed    BrewStatus = "served"
	BrewCold      BrewStatus = "cold"
)

var BrewStatuses = []BrewStatus{
	BrewPreparing, BrewSteeping, BrewReady, BrewServed, BrewCold,
}

func (s BrewStatus) Valid() bool {
	switch s {
	case BrewPreparing, BrewSteeping, BrewReady, BrewServed, BrewCold:
		return true
	}
	return false
}

type Teapot struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Material    TeapotMaterial `json:"material"`
	CapacityMl  int            `json:"capacityMl"`
	Style       TeapotStyle    `json:"style"`
	Description *string        `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type Tea struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Type             TeaType       `json:"type"`
	Origin           *string       `json:"origin"`
	CaffeineLevel    CaffeineLevel `json:"caffeineLevel"`
	SteepTempCelsius int           `json:"steepTempCelsius"`
	SteepTimeSeconds int           `json:"steepTimeSeconds"`
	Description      *string       `json:"description"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

type Brew struct {
	ID               string     `json:"id"`
	TeapotID         string     `json:"teapotId"`
	TeaID            string     `json:"teaId"`
	Status           BrewStatus `json:"status"`
	WaterTempCelsius int        `json:"waterTempCelsius"`
	Notes            *string    `json:"notes"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Steep is immutable once stored, so it carries no UpdatedAt.
type Steep struct {
	ID              string    `json:"id"`
	BrewID          string    `json:"brewId"`
	SteepNumber     int       `json:"steepNumber"`
	DurationSeconds int       `json:"durationSeconds"`
	Rating          *int      `json:"rating"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Clone returns a copy that shares no pointers with t.
func (t *Teapot) Clone() *Teapot {
	c := *t
	c.Description = cloneString(t.Description)
	return &c
}

func (t *Tea) Clone() *Tea {
	c := *t
	c.Origin = cloneString(t.Origin)
	c.Description = cloneString(t.Description)
	return &c
}

func (b *Brew) Clone() *Brew {
	c := *b
	c.Notes = cloneString(b.Notes)
	if b.CompletedAt != nil {
		at := *b.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

func (s *Steep) Clone() *Steep {
	c := *s
	c.Notes = cloneString(s.Notes)
	if s.Rating != nil {
		r := *s.Rating
		c.Rating = &r
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
