package query_test

import (
	"fmt"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

var sortable = query.Sortable{"nom": "name", "ville": "city"} //nolint:gochecknoglobals

func parse(t *testing.T, rawQuery string) (query.Options, error) {
	t.Helper()

	var (
		opts query.Options
		err  error
	)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		opts, err = query.Parse(c, sortable, "nom")

		return nil
	})

	_, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/?"+rawQuery, nil))
	require.NoError(t, testErr)

	return opts, err
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  query.Options
	}{
		{"defaults", "", query.Options{Page: 1, PageSize: 20, Column: "name"}},
		{"explicit", "page=3&pageSize=50&orderBy=ville&orderDirection=desc&recherche=%20lyon%20",
			query.Options{Page: 3, PageSize: 50, Column: "city", Desc: true, Search: "lyon"}},
		{"page size capped", "pageSize=1000", query.Options{Page: 1, PageSize: 100, Column: "name"}},
		{"non positive values fall back", "page=0&pageSize=0", query.Options{Page: 1, PageSize: 20, Column: "name"}},
		{"direction is case insensitive", "orderDirection=DESC", query.Options{Page: 1, PageSize: 20, Column: "name", Desc: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parse(t, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, raw := range []string{"page=x", "pageSize=y", "orderBy=password", "orderDirection=sideways"} {
		t.Run(raw, func(t *testing.T) {
			_, err := parse(t, raw)
			require.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestHugePageIsClamped(t *testing.T) {
	opts, err := parse(t, "page=9223372036854775807&pageSize=100")
	require.NoError(t, err)

	assert.Equal(t, math.MaxInt32/100+1, opts.Page)
	assert.LessOrEqual(t, opts.Offset(), math.MaxInt32)
	assert.GreaterOrEqual(t, opts.Offset(), 0)

	built := query.Options{Page: math.MaxInt, PageSize: 1}
	assert.Equal(t, math.MaxInt32, built.Offset())

	db := dbtest.Open(t)
	require.NoError(t, db.Create(&models.Club{Name: "Club"}).Error)

	var clubs []models.Club
	total, err := query.Find(db.Model(&models.Club{}), opts, &clubs)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Empty(t, clubs)
}

func TestTotalPages(t *testing.T) {
	opts := query.Options{Page: 1, PageSize: 20}

	assert.Equal(t, 0, opts.TotalPages(0))
	assert.Equal(t, 1, opts.TotalPages(20))
	assert.Equal(t, 2, opts.TotalPages(21))
}

func TestFindAndHeaders(t *testing.T) {
	db := dbtest.Open(t)

	for i := range 25 {
		city := "Lyon"
		if i%2 == 1 {
			city = "Paris"
		}

		require.NoError(t, db.Create(&models.Club{Name: fmt.Sprintf("Club %02d", i), City: city}).Error)
	}

	opts := query.Options{Page: 2, PageSize: 5, Column: "name", Desc: true, Search: "LYON"}

	var clubs []models.Club
	total, err := query.Find(opts.Match(db.Model(&models.Club{}), "city"), opts, &clubs)
	require.NoError(t, err)

	assert.EqualValues(t, 13, total)
	require.Len(t, clubs, 5)
	assert.Equal(t, "Club 14", clubs[0].Name)
	assert.Equal(t, "Club 06", clubs[4].Name)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		query.SetHeaders(c, opts, total)

		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Equal(t, "13", resp.Header.Get(query.HeaderTotalCount))
	assert.Equal(t, "2", resp.Header.Get(query.HeaderPage))
	assert.Equal(t, "5", resp.Header.Get(query.HeaderPageSize))
	assert.Equal(t, "3", resp.Header.Get(query.HeaderTotalPages))
}

func TestMatchSeveralColumns(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, db.Create(&models.Club{Name: "Rotary Lyon", City: "Lyon"}).Error)
	require.NoError(t, db.Create(&models.Club{Name: "Rotary Paris", City: "Paris"}).Error)
	require.NoError(t, db.Create(&models.Club{Name: "Lions Bron", City: "Bron"}).Error)

	opts := query.Options{Page: 1, PageSize: 10, Column: "name", Search: "ro"}

	var clubs []models.Club
	total, err := query.Find(opts.Match(db.Model(&models.Club{}).Where("city <> ?", "Paris"), "name", "city"), opts, &clubs)
	require.NoError(t, err)

	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Lions Bron", clubs[0].Name)
	assert.Equal(t, "Rotary Lyon", clubs[1].Name)
}
