// Package budget serves the budget hierarchy, the rubriques of a mandat,
// their synthesis and the spreadsheet export.
package budget

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// TypesPath lists and creates budget types.
	TypesPath = handler.ClubPath + "/budget/types"
	// CategoriesPath lists and creates categories, ?typeBudgetId filters.
	CategoriesPath = handler.ClubPath + "/budget/categories"
	// SubCategoriesPath lists and creates sub-categories, ?categoryBudgetId filters.
	SubCategoriesPath = handler.ClubPath + "/budget/sous-categories"

	mandatPath = handler.ClubPath + "/mandats/:mandatId"

	// RubriquesPath lists and creates the rubriques of a mandat.
	RubriquesPath = mandatPath + "/rubriques"
	// RubriquePath addresses one rubrique.
	RubriquePath = RubriquesPath + "/:id"
	// RealizedPath records the realized amount of a rubrique.
	RealizedPath = RubriquePath + "/realise"
	// SynthesePath aggregates the budget of a mandat.
	SynthesePath = mandatPath + "/budget/synthese"
	// ExportPath downloads the budget of a mandat as a spreadsheet.
	ExportPath = mandatPath + "/budget/export"
)

// Service is the budget handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the budget handler.
var Handler = Service{}

// Init registers the budget routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	read := access.RequireClub(deps.Gate, access.ReadOf(access.ResourceBudget))
	write := access.RequireClub(deps.Gate, access.WriteOf(access.ResourceBudget))

	app.Get(TypesPath, read, s.Types)
	app.Post(TypesPath, write, s.CreateType)
	app.Get(TypesPath+"/:id", read, s.GetType)
	app.Put(TypesPath+"/:id", write, s.UpdateType)
	app.Delete(TypesPath+"/:id", write, s.DeleteType)

	app.Get(CategoriesPath, read, s.Categories)
	app.Post(CategoriesPath, write, s.CreateCategory)
	app.Get(CategoriesPath+"/:id", read, s.GetCategory)
	app.Put(CategoriesPath+"/:id", write, s.UpdateCategory)
	app.Delete(CategoriesPath+"/:id", write, s.DeleteCategory)

	app.Get(SubCategoriesPath, read, s.SubCategories)
	app.Post(SubCategoriesPath, write, s.CreateSubCategory)
	app.Get(SubCategoriesPath+"/:id", read, s.GetSubCategory)
	app.Put(SubCategoriesPath+"/:id", write, s.UpdateSubCategory)
	app.Delete(SubCategoriesPath+"/:id", write, s.DeleteSubCategory)

	app.Get(RubriquesPath, read, s.Rubriques)
	app.Post(RubriquesPath, write, s.CreateRubrique)
	app.Get(RubriquePath, read, s.GetRubrique)
	app.Put(RubriquePath, write, s.UpdateRubrique)
	app.Delete(RubriquePath, write, s.DeleteRubrique)
	app.Patch(RealizedPath, write, s.SetRealized)

	app.Get(SynthesePath, read, s.Synthese)
	app.Get(ExportPath, read, s.Export)
}
