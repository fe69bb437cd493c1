package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teapot/internal/database"
	"teapot/internal/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newTeapot(id string, material models.TeapotMaterial) *models.Teapot {
	return &models.Teapot{
		ID: id, Name: "Pot " + id, Material: material, CapacityMl: 500,
		Style: models.StyleEnglish, CreatedAt: testNow, UpdatedAt: testNow,
	}
}

func newTea(id string, ty models.TeaType) *models.Tea {
	return &models.Tea{
		ID: id, Name: "Tea " + id, Type: ty, CaffeineLevel: models.CaffeineMedium,
		SteepTempCelsius: 80, SteepTimeSeconds: 120, CreatedAt: testNow, UpdatedAt: testNow,
	}
}

func newBrew(id, teapotID, teaID string) *models.Brew {
	return &models.Brew{
		ID: id, TeapotID: teapotID, TeaID: teaID, Status: models.BrewPreparing,
		WaterTempCelsius: 80, StartedAt: testNow, CreatedAt: testNow, UpdatedAt: testNow,
	}
}

func newSteep(id, brewID string) *models.Steep {
	return &models.Steep{ID: id, BrewID: brewID, DurationSeconds: 30, CreatedAt: testNow}
}

func all() models.Page { return models.Page{Page: 1, Limit: models.MaxLimit} }

func TestStore_TeapotLifecycle(t *testing.T) {
	s := New()

	s.CreateTeapot(newTeapot("a", models.MaterialClay))
	got, ok := s.GetTeapot("a")
	require.True(t, ok)
	assert.Equal(t, "Pot a", got.Name)

	updated := got.Clone()
	updated.Name = "Renamed"
	assert.True(t, s.UpdateTeapot(updated))

	got, _ = s.GetTeapot("a")
	assert.Equal(t, "Renamed", got.Name)

	assert.True(t, s.DeleteTeapot("a"))
	assert.False(t, s.DeleteTeapot("a"))
	_, ok = s.GetTeapot("a")
	assert.False(t, ok)
}

func TestStore_UpdateMissingDoesNotInsert(t *testing.T) {
	s := New()
	assert.False(t, s.UpdateTeapot(newTeapot("ghost", models.MaterialGlass)))
	assert.False(t, s.UpdateTea(newTea("ghost", models.TeaGreen)))
	assert.False(t, s.UpdateBrew(newBrew("ghost", "p", "t")))
	assert.Equal(t, database.Stats{}, s.Stats())
}

func TestStore_Snapshots(t *testing.T) {
	s := New()
	tp := newTeapot("a", models.MaterialClay)
	tp.Description = strPtr("original")
	s.CreateTeapot(tp)

	// Mutating the value passed in must not reach the store.
	tp.Name = "mutated"
	*tp.Description = "mutated"

	got, _ := s.GetTeapot("a")
	assert.Equal(t, "Pot a", got.Name)
	assert.Equal(t, "original", *got.Description)

	// Nor must mutating a value read back out.
	got.Name = "mutated again"
	again, _ := s.GetTeapot("a")
	assert.Equal(t, "Pot a", again.Name)

	list, _ := s.ListTeapots(models.TeapotFilter{}, all())
	list[0].Name = "from list"
	again, _ = s.GetTeapot("a")
	assert.Equal(t, "Pot a", again.Name)
}

func TestStore_ListTeapots(t *testing.T) {
	s := New()
	for i, m := range []models.TeapotMaterial{
		models.MaterialClay, models.MaterialGlass, models.MaterialClay,
		models.MaterialClay, models.MaterialCastIron,
	} {
		s.CreateTeapot(newTeapot(fmt.Sprintf("p%d", i), m))
	}

	tests := []struct {
		name      string
		filter    models.TeapotFilter
		page      models.Page
		wantIDs   []string
		wantTotal int
	}{
		{"all in insertion order", models.TeapotFilter{}, all(), []string{"p0", "p1", "p2", "p3", "p4"}, 5},
		{"filtered", models.TeapotFilter{Material: models.MaterialClay}, all(), []string{"p0", "p2", "p3"}, 3},
		{"second page", models.TeapotFilter{}, models.Page{Page: 2, Limit: 2}, []string{"p2", "p3"}, 5},
		{"filtered second page", models.TeapotFilter{Material: models.MaterialClay}, models.Page{Page: 2, Limit: 2}, []string{"p3"}, 3},
		{"past the end", models.TeapotFilter{}, models.Page{Page: 9, Limit: 2}, []string{}, 5},
		{"page beyond int range of offsets", models.TeapotFilter{}, models.Page{Page: math.MaxInt, Limit: 2}, []string{}, 5},
		{"huge page with max limit", models.TeapotFilter{}, models.Page{Page: 100000000000000001, Limit: 100}, []string{}, 5},
		{"no match", models.TeapotFilter{Style: models.StyleKyusu}, all(), []string{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := s.ListTeapots(tt.filter, tt.page)
			ids := make([]string, 0, len(got))
			for _, tp := range got {
				ids = append(ids, tp.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, total)
			assert.NotNil(t, got)
		})
	}
}

func TestStore_InsertionOrderSurvivesDelete(t *testing.T) {
	s := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.CreateTea(newTea(id, models.TeaGreen))
	}
	s.DeleteTea("b")
	s.CreateTea(newTea("e", models.TeaBlack))

	got, total := s.ListTeas(models.TeaFilter{}, all())
	require.Equal(t, 4, total)
	assert.Equal(t, []string{"a", "c", "d", "e"}, []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
}

func TestStore_ListBrews(t *testing.T) {
	s := New()
	s.CreateBrew(newBrew("b1", "p1", "t1"))
	s.CreateBrew(newBrew("b2", "p2", "t1"))
	b3 := newBrew("b3", "p1", "t2")
	b3.Status = models.BrewReady
	s.CreateBrew(b3)

	got, total := s.ListBrews(models.BrewFilter{TeaID: "t1"}, all())
	assert.Equal(t, 2, total)
	assert.Equal(t, "b1", got[0].ID)

	got, total = s.ListBrews(models.BrewFilter{TeapotID: "p1", Status: models.BrewReady}, all())
	assert.Equal(t, 1, total)
	assert.Equal(t, "b3", got[0].ID)

	got, total = s.ListBrewsByTeapot("p1", all())
	assert.Equal(t, 2, total)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "b3", got[1].ID)
}

func TestStore_DeleteTeapotKeepsBrews(t *testing.T) {
	s := New()
	s.CreateTeapot(newTeapot("p1", models.MaterialClay))
	s.CreateBrew(newBrew("b1", "p1", "t1"))

	require.True(t, s.DeleteTeapot("p1"))
	b, ok := s.GetBrew("b1")
	require.True(t, ok)
	assert.Equal(t, "p1", b.TeapotID)
}

func TestStore_CreateSteep(t *testing.T) {
	s := New()

	_, ok := s.CreateSteep(newSteep("s0", "missing"))
	assert.False(t, ok, "steep for unknown brew must be rejected")
	assert.Equal(t, 0, s.Stats().Steeps)

	s.CreateBrew(newBrew("b1", "p1", "t1"))
	s.CreateBrew(newBrew("b2", "p1", "t1"))
	assert.Equal(t, 1, s.NextSteepNumber("b1"))

	for i := 1; i <= 3; i++ {
		st, ok := s.CreateSteep(newSteep(fmt.Sprintf("b1-s%d", i), "b1"))
		require.True(t, ok)
		assert.Equal(t, i, st.SteepNumber)
	}
	st, ok := s.CreateSteep(newSteep("b2-s1", "b2"))
	require.True(t, ok)
	assert.Equal(t, 1, st.SteepNumber, "numbering is per brew")
	assert.Equal(t, 4, s.NextSteepNumber("b1"))

	got, ok := s.GetSteep("b1-s2")
	require.True(t, ok)
	assert.Equal(t, 2, got.SteepNumber)
}

func TestStore_CreateSteepIgnoresCallerNumber(t *testing.T) {
	s := New()
	s.CreateBrew(newBrew("b1", "p1", "t1"))

	in := newSteep("s1", "b1")
	in.SteepNumber = 42
	st, ok := s.CreateSteep(in)
	require.True(t, ok)
	assert.Equal(t, 1, st.SteepNumber)
	assert.Equal(t, 42, in.SteepNumber, "input is not modified")
}

func TestStore_ListSteepsByBrew(t *testing.T) {
	s := New()
	s.CreateBrew(newBrew("b1", "p1", "t1"))
	s.CreateBrew(newBrew("b2", "p1", "t1"))
	for i := 0; i < 5; i++ {
		brew := "b1"
		if i%2 == 1 {
			brew = "b2"
		}
		_, ok := s.CreateSteep(newSteep(fmt.Sprintf("s%d", i), brew))
		require.True(t, ok)
	}

	got, total := s.ListSteepsByBrew("b1", all())
	assert.Equal(t, 3, total)
	for i, st := range got {
		assert.Equal(t, i+1, st.SteepNumber)
		assert.Equal(t, "b1", st.BrewID)
	}

	got, total = s.ListSteepsByBrew("b1", models.Page{Page: 2, Limit: 2})
	assert.Equal(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].SteepNumber)

	got, total = s.ListSteepsByBrew("b1", models.Page{Page: math.MaxInt, Limit: 2})
	assert.Equal(t, 3, total)
	assert.Empty(t, got)
}

func TestStore_DeleteBrewCascades(t *testing.T) {
	s := New()
	s.CreateBrew(newBrew("b1", "p1", "t1"))
	s.CreateBrew(newBrew("b2", "p1", "t1"))
	for i := 0; i < 3; i++ {
		s.CreateSteep(newSteep(fmt.Sprintf("b1-%d", i), "b1"))
	}
	s.CreateSteep(newSteep("b2-0", "b2"))

	require.True(t, s.DeleteBrew("b1"))
	_, total := s.ListSteepsByBrew("b1", all())
	assert.Zero(t, total)
	_, ok := s.GetSteep("b1-0")
	assert.False(t, ok)

	_, total = s.ListSteepsByBrew("b2", all())
	assert.Equal(t, 1, total)
	assert.Equal(t, database.Stats{Brews: 1, Steeps: 1}, s.Stats())

	assert.False(t, s.DeleteBrew("b1"))
}

func TestStore_StatsAndClear(t *testing.T) {
	s := New()
	s.CreateTeapot(newTeapot("p1", models.MaterialClay))
	s.CreateTea(newTea("t1", models.TeaGreen))
	s.CreateTea(newTea("t2", models.TeaGreen))
	s.CreateBrew(newBrew("b1", "p1", "t1"))
	s.CreateSteep(newSteep("s1", "b1"))

	assert.Equal(t, database.Stats{Teapots: 1, Teas: 2, Brews: 1, Steeps: 1}, s.Stats())

	s.Clear()
	assert.Equal(t, database.Stats{}, s.Stats())
	got, total := s.ListTeas(models.TeaFilter{}, all())
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestStore_ConcurrentSteepNumbering(t *testing.T) {
	s := New()
	s.CreateBrew(newBrew("b1", "p1", "t1"))

	const n = 50
	var wg sync.WaitGroup
	numbers := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st, ok := s.CreateSteep(newSteep(fmt.Sprintf("s%d", i), "b1"))
			if ok {
				numbers[i] = st.SteepNumber
			}
		}(i)
	}
	wg.Wait()

	sort.Ints(numbers)
	for i, got := range numbers {
		assert.Equal(t, i+1, got)
	}
}

func TestStore_ConcurrentDeleteAndSteep(t *testing.T) {
	s := New()
	s.CreateBrew(newBrew("b1", "p1", "t1"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.CreateSteep(newSteep(fmt.Sprintf("s%d", i), "b1"))
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.DeleteBrew("b1")
	}()
	wg.Wait()

	// Whatever interleaving happened, no steep may outlive its brew.
	_, total := s.ListSteepsByBrew("b1", all())
	assert.Zero(t, total)
	assert.Zero(t, s.Stats().Steeps)
}

func TestStore_ConcurrentMixedAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		id := fmt.Sprintf("p%d", i)
		go func() {
			defer wg.Done()
			s.CreateTeapot(newTeapot(id, models.MaterialGlass))
		}()
		go func() {
			defer wg.Done()
			s.ListTeapots(models.TeapotFilter{}, all())
		}()
		go func() {
			defer wg.Done()
			s.Stats()
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, s.Stats().Teapots)
}
