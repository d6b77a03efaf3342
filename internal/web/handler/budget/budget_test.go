package budget_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/budget"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/mandat"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/finance"
	"github.com/ClubAdmin/ClubAdmin/internal/web/webtest"
)

func create[T any](t *testing.T, env *webtest.Env, path, token string, body any) T {
	t.Helper()

	resp := env.Do(t, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, path)

	return webtest.Decode[T](t, resp)
}

func TestBudgetLifecycle(t *testing.T) {
	env := webtest.New(t)

	president := env.User(t, "president", models.RolePresident)
	alice := env.User(t, "alice")
	club := env.Club(t, "Rotary Lyon", president, alice)
	token := env.Token(t, president)

	clubPath := fmt.Sprintf("/api/clubs/%s", club.ID)

	m := create[models.Mandat](t, env, clubPath+"/mandats", token, mandat.Input{Year: 2025, Description: "Exercice 2025"})
	typ := create[models.TypeBudget](t, env, clubPath+"/budget/types", token, budget.TypeInput{Libelle: "Dépenses"})
	cat := create[models.CategoryBudget](t, env, clubPath+"/budget/categories", token,
		budget.CategoryInput{TypeBudgetID: typ.ID, Libelle: "Fonctionnement"})
	sub := create[models.SousCategoryBudget](t, env, clubPath+"/budget/sous-categories", token,
		budget.SubCategoryInput{CategoryBudgetID: cat.ID, Libelle: "Location"})

	rubriques := fmt.Sprintf("%s/mandats/%s/rubriques", clubPath, m.ID)

	salle := create[budget.Rubrique](t, env, rubriques, token, budget.RubriqueInput{
		SousCategoryBudgetID: sub.ID,
		Libelle:              "Salle",
		UnitPrice:            decimal.NewFromInt(250),
		Quantity:             4,
	})
	assert.True(t, decimal.NewFromInt(1000).Equal(salle.Planned), salle.Planned.String())
	assert.Equal(t, finance.StatusUnderConsumed, salle.Status)

	create[budget.Rubrique](t, env, rubriques, token, budget.RubriqueInput{
		SousCategoryBudgetID: sub.ID,
		Libelle:              "Sono",
		UnitPrice:            decimal.NewFromInt(100),
		Quantity:             1,
		Realized:             decimal.NewFromInt(150),
	})

	resp := env.Do(t, http.MethodPost, rubriques, token, budget.RubriqueInput{
		SousCategoryBudgetID: sub.ID,
		Libelle:              "Salle",
		Quantity:             1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "duplicate libelle")

	resp = env.Do(t, http.MethodPatch, rubriques+"/"+salle.ID.String()+"/realise", token,
		budget.RealizedInput{Realized: decimal.NewFromInt(850)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	salle = webtest.Decode[budget.Rubrique](t, resp)
	assert.Equal(t, finance.StatusInProgress, salle.Status)
	assert.True(t, decimal.NewFromInt(85).Equal(salle.PercentRealized), salle.PercentRealized.String())

	resp = env.Do(t, http.MethodGet, fmt.Sprintf("%s/mandats/%s/budget/synthese", clubPath, m.ID), env.Token(t, alice), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s := webtest.Decode[budget.Summary](t, resp)
	assert.Equal(t, 2025, s.Year)
	require.Len(t, s.Categories, 1)
	assert.Equal(t, 2, s.Categories[0].Lines)
	assert.True(t, decimal.NewFromInt(1100).Equal(s.Global.Planned), s.Global.Planned.String())
	assert.True(t, decimal.NewFromInt(1000).Equal(s.Global.Realized), s.Global.Realized.String())
	assert.True(t, decimal.NewFromInt(-100).Equal(s.Global.Variance), s.Global.Variance.String())
	assert.Equal(t, finance.StatusInProgress, s.Global.Status)

	resp = env.Do(t, http.MethodGet, fmt.Sprintf("%s/mandats/%s/budget/export", clubPath, m.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, budget.ContentTypeXLSX, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "budget-"+m.ID.String()+".xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(budget.ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Budget 2025", rows[0][0])
	assert.Equal(t, "Total", rows[5][0])
}

func TestDeleteTypeInUse(t *testing.T) {
	env := webtest.New(t)

	treasurer := env.User(t, "treasurer", models.RoleTreasurer)
	club := env.Club(t, "Rotary Lyon", treasurer)
	token := env.Token(t, treasurer)

	types := fmt.Sprintf("/api/clubs/%s/budget/types", club.ID)

	typ := create[models.TypeBudget](t, env, types, token, budget.TypeInput{Libelle: "Recettes"})
	create[models.CategoryBudget](t, env, fmt.Sprintf("/api/clubs/%s/budget/categories", club.ID), token,
		budget.CategoryInput{TypeBudgetID: typ.ID, Libelle: "Cotisations"})

	resp := env.Do(t, http.MethodDelete, types+"/"+typ.ID.String(), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.Do(t, http.MethodGet, types, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, webtest.Decode[[]models.TypeBudget](t, resp), 1)
}
