package seed

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teapot/internal/database/memory"
	"teapot/internal/models"
)

const fixture = `
teapots:
  - key: kyusu
    name: Tokoname Kyusu
    material: clay
    capacityMl: 280
    style: kyusu
  - key: mug
    name: Office Mug Pot
    material: ceramic
    capacityMl: 600
teas:
  - key: sencha
    name: Sencha
    type: green
    origin: Shizuoka
    steepTempCelsius: 75
    steepTimeSeconds: 60
brews:
  - key: morning
    teapot: kyusu
    tea: sencha
    notes: first flush
    steeps:
      - durationSeconds: 60
        rating: 4
      - durationSeconds: 30
  - teapot: mug
    tea: sencha
    waterTempCelsius: 80
`

var frozen = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "seed-" + strconv.Itoa(n)
	}
}

func clock() time.Time { return frozen }

func TestLoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	fx, err := Load(path)
	require.NoError(t, err)

	store := memory.New()
	sum, err := Apply(store, fx, clock, sequentialIDs())
	require.NoError(t, err)
	assert.Equal(t, Summary{Teapots: 2, Teas: 1, Brews: 2, Steeps: 2}, sum)

	mug, ok := store.GetTeapot("seed-2")
	require.True(t, ok)
	assert.Equal(t, models.StyleEnglish, mug.Style, "style defaults like a POST body")

	sencha, ok := store.GetTea("seed-3")
	require.True(t, ok)
	assert.Equal(t, models.CaffeineMedium, sencha.CaffeineLevel)

	morning, ok := store.GetBrew("seed-4")
	require.True(t, ok)
	assert.Equal(t, "seed-1", morning.TeapotID)
	assert.Equal(t, "seed-3", morning.TeaID)
	assert.Equal(t, 75, morning.WaterTempCelsius, "water temp falls back to the tea")
	assert.Equal(t, models.BrewPreparing, morning.Status)
	assert.Equal(t, frozen, morning.StartedAt)

	steeps, total := store.ListSteepsByBrew("seed-4", models.Page{Page: 1, Limit: 20})
	require.Equal(t, 2, total)
	assert.Equal(t, 1, steeps[0].SteepNumber)
	assert.Equal(t, 60, steeps[0].DurationSeconds)
	assert.Equal(t, 2, steeps[1].SteepNumber)

	second, ok := store.GetBrew("seed-7")
	require.True(t, ok)
	assert.Equal(t, 80, second.WaterTempCelsius)
}

func TestParse(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		fx, err := Parse(nil)
		require.NoError(t, err)
		assert.Empty(t, fx.Teapots)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("teapots:\n  - key: a\n    colour: red\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "seed: parse")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "invalid teapot",
			doc:     "teapots:\n  - key: big\n    name: Cauldron\n    material: clay\n    capacityMl: 9000\n",
			wantErr: `teapot "big"`,
		},
		{
			name:    "keyless record is named by position",
			doc:     "teas:\n  - name: Nameless\n    type: black\n    steepTempCelsius: 95\n",
			wantErr: "tea #1",
		},
		{
			name:    "duplicate key",
			doc:     "teapots:\n  - {key: a, name: A, material: glass, capacityMl: 100}\n  - {key: a, name: B, material: glass, capacityMl: 100}\n",
			wantErr: "duplicate key",
		},
		{
			name:    "unknown teapot reference",
			doc:     "teas:\n  - {key: t, name: T, type: white, steepTempCelsius: 80, steepTimeSeconds: 60}\nbrews:\n  - {key: b, teapot: ghost, tea: t}\n",
			wantErr: `unknown teapot "ghost"`,
		},
		{
			name: "invalid steep",
			doc: "teapots:\n  - {key: p, name: P, material: glass, capacityMl: 100}\n" +
				"teas:\n  - {key: t, name: T, type: white, steepTempCelsius: 80, steepTimeSeconds: 60}\n" +
				"brews:\n  - {key: b, teapot: p, tea: t, steeps: [{durationSeconds: 10, rating: 9}]}\n",
			wantErr: `brew "b" steep 1`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx, err := Parse([]byte(tt.doc))
			require.NoError(t, err)

			_, err = Apply(memory.New(), fx, clock, sequentialIDs())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApply_StopsAtFirstInvalidRecord(t *testing.T) {
	fx, err := Parse([]byte("teapots:\n  - {key: a, name: A, material: glass, capacityMl: 100}\n  - {key: b, name: B, material: tin, capacityMl: 100}\n  - {key: c, name: C, material: glass, capacityMl: 100}\n"))
	require.NoError(t, err)

	store := memory.New()
	sum, err := Apply(store, fx, clock, sequentialIDs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "material")
	assert.Equal(t, 1, sum.Teapots)
	assert.Equal(t, 1, store.Stats().Teapots)
}
