package database

import "teapot/internal/models"

// Store defines the interface for all catalogue operations.
// Implementations must be safe for concurrent use; every method is atomic
// with respect to every other method.
type Store interface {
	// Teapot operations
	CreateTeapot(t *models.Teapot)
	GetTeapot(id string) (*models.Teapot, bool)
	ListTeapots(f models.TeapotFilter, p models.Page) ([]*models.Teapot, int)
	UpdateTeapot(t *models.Teapot) bool
	DeleteTeapot(id string) bool

	// Tea operations
	CreateTea(t *models.Tea)
	GetTea(id string) (*models.Tea, bool)
	ListTeas(f models.TeaFilter, p models.Page) ([]*models.Tea, int)
	UpdateTea(t *models.Tea) bool
	DeleteTea(id string) bool

	// Brew operations
	// DeleteBrew also removes every steep that belongs to the brew.
	CreateBrew(b *models.Brew)
	GetBrew(id string) (*models.Brew, bool)
	ListBrews(f models.BrewFilter, p models.Page) ([]*models.Brew, int)
	ListBrewsByTeapot(teapotID string, p models.Page) ([]*models.Brew, int)
	UpdateBrew(b *models.Brew) bool
	DeleteBrew(id string) bool

	// Steep operations
	// CreateSteep assigns the next steep number for the parent brew and
	// inserts in one step. It returns false when the brew does not exist.
	CreateSteep(s *models.Steep) (*models.Steep, bool)
	GetSteep(id string) (*models.Steep, bool)
	ListSteepsByBrew(brewID string, p models.Page) ([]*models.Steep, int)
	NextSteepNumber(brewID string) int

	Stats() Stats
	Clear()
}

// Stats holds entity counts at a single point in time.
type Stats struct {
	Teapots int
	Teas    int
	Brews   int
	Steeps  int
}
