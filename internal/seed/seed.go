// Package seed loads a YAML fixture of teapots, teas, brews and steeps
// into a store before the server starts accepting requests.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"teapot/internal/database"
	"teapot/internal/models"
)

// Fixture is the document format. Keys are local to the file and only
// used to point brews at their teapot and tea.
type Fixture struct {
	Teapots []TeapotRecord `yaml:"teapots"`
	Teas    []TeaRecord    `yaml:"teas"`
	Brews   []BrewRecord   `yaml:"brews"`
}

type TeapotRecord struct {
	Key         string                 `yaml:"key"`
	Name        *string                `yaml:"name"`
	Material    *models.TeapotMaterial `yaml:"material"`
	CapacityMl  *int                   `yaml:"capacityMl"`
	Style       *models.TeapotStyle    `yaml:"style"`
	Description *string                `yaml:"description"`
}

type TeaRecord struct {
	Key              string                `yaml:"key"`
	Name             *string               `yaml:"name"`
	Type             *models.TeaType       `yaml:"type"`
	Origin           *string               `yaml:"origin"`
	CaffeineLevel    *models.CaffeineLevel `yaml:"caffeineLevel"`
	SteepTempCelsius *int                  `yaml:"steepTempCelsius"`
	SteepTimeSeconds *int                  `yaml:"steepTimeSeconds"`
	Description      *string               `yaml:"description"`
}

type BrewRecord struct {
	Key              string        `yaml:"key"`
	Teapot           string        `yaml:"teapot"`
	Tea              string        `yaml:"tea"`
	WaterTempCelsius *int          `yaml:"waterTempCelsius"`
	Notes            *string       `yaml:"notes"`
	Steeps           []SteepRecord `yaml:"steeps"`
}

type SteepRecord struct {
	DurationSeconds *int    `yaml:"durationSeconds"`
	Rating          *int    `yaml:"rating"`
	Notes           *string `yaml:"notes"`
}

// Summary counts what Apply inserted.
type Summary struct {
	Teapots int
	Teas    int
	Brews   int
	Steeps  int
}

// Load reads and decodes the fixture at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture document. Unknown keys are rejected so typos
// surface at startup instead of silently dropping a field.
func Parse(data []byte) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, fmt.Errorf("seed: parse: %w", err)
	}
	return &fx, nil
}

// Apply validates every record with the same rules as the HTTP API and
// inserts it. The first invalid record stops loading; records inserted
// before it stay in the store.
func Apply(store database.Store, fx *Fixture, now func() time.Time, newID func() string) (Summary, error) {
	var sum Summary
	teapots := make(map[string]string, len(fx.Teapots))
	teas := make(map[string]*models.Tea, len(fx.Teas))

	for i, rec := range fx.Teapots {
		name, err := recordName("teapot", i, rec.Key, teapots)
		if err != nil {
			return sum, err
		}
		req := models.CreateTeapotRequest{
			Name:        rec.Name,
			Material:    rec.Material,
			CapacityMl:  rec.CapacityMl,
			Style:       rec.Style,
			Description: rec.Description,
		}
		tp, err := req.Build(newID(), now().UTC())
		if err != nil {
			return sum, fmt.Errorf("seed: %s: %w", name, err)
		}
		store.CreateTeapot(tp)
		if rec.Key != "" {
			teapots[rec.Key] = tp.ID
		}
		sum.Teapots++
	}

	for i, rec := range fx.Teas {
		name, err := recordName("tea", i, rec.Key, teas)
		if err != nil {
			return sum, err
		}
		req := models.CreateTeaRequest{
			Name:             rec.Name,
			Type:             rec.Type,
			Origin:           rec.Origin,
			CaffeineLevel:    rec.CaffeineLevel,
			SteepTempCelsius: rec.SteepTempCelsius,
			SteepTimeSeconds: rec.SteepTimeSeconds,
			Description:      rec.Description,
		}
		tea, err := req.Build(newID(), now().UTC())
		if err != nil {
			return sum, fmt.Errorf("seed: %s: %w", name, err)
		}
		store.CreateTea(tea)
		if rec.Key != "" {
			teas[rec.Key] = tea
		}
		sum.Teas++
	}

	brews := make(map[string]struct{}, len(fx.Brews))
	for i, rec := range fx.Brews {
		name, err := recordName("brew", i, rec.Key, brews)
		if err != nil {
			return sum, err
		}
		if rec.Key != "" {
			brews[rec.Key] = struct{}{}
		}

		teapotID, ok := teapots[rec.Teapot]
		if !ok {
			return sum, fmt.Errorf("seed: %s: unknown teapot %q", name, rec.Teapot)
		}
		tea, ok := teas[rec.Tea]
		if !ok {
			return sum, fmt.Errorf("seed: %s: unknown tea %q", name, rec.Tea)
		}

		req := models.CreateBrewRequest{
			TeapotID:         &teapotID,
			TeaID:            &tea.ID,
			WaterTempCelsius: rec.WaterTempCelsius,
			Notes:            rec.Notes,
		}
		if err := req.Validate(); err != nil {
			return sum, fmt.Errorf("seed: %s: %w", name, err)
		}
		brew := req.Build(newID(), now().UTC(), tea)
		store.CreateBrew(brew)
		sum.Brews++

		for j, sr := range rec.Steeps {
			sreq := models.CreateSteepRequest{
				DurationSeconds: sr.DurationSeconds,
				Rating:          sr.Rating,
				Notes:           sr.Notes,
			}
			steep, err := sreq.Build(newID(), brew.ID, now().UTC())
			if err != nil {
				return sum, fmt.Errorf("seed: %s steep %d: %w", name, j+1, err)
			}
			if _, ok := store.CreateSteep(steep); !ok {
				return sum, fmt.Errorf("seed: %s steep %d: brew disappeared", name, j+1)
			}
			sum.Steeps++
		}
	}

	log.Info().
		Int("teapots", sum.Teapots).
		Int("teas", sum.Teas).
		Int("brews", sum.Brews).
		Int("steeps", sum.Steeps).
		Msg("Seed fixture applied")

	return sum, nil
}

// recordName labels a record for error messages and rejects duplicate keys.
func recordName[V any](kind string, index int, key string, seen map[string]V) (string, error) {
	if key == "" {
		return fmt.Sprintf("%s #%d", kind, index+1), nil
	}
	name := fmt.Sprintf("%s %q", kind, key)
	if _, dup := seen[key]; dup {
		return name, fmt.Errorf("seed: %s: duplicate key", name)
	}
	return name, nil
}
