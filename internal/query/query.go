// Package query parses list parameters and applies them to gorm queries.
package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

const (
	// DefaultPageSize is used when pageSize is missing.
	DefaultPageSize = 20
	// MaxPageSize caps pageSize.
	MaxPageSize = 100

	// HeaderTotalCount is the number of matching rows.
	HeaderTotalCount = "X-Total-Count"
	// HeaderPage is the returned page, starting at 1.
	HeaderPage = "X-Page"
	// HeaderPageSize is the effective page size.
	HeaderPageSize = "X-Page-Size"
	// HeaderTotalPages is the number of pages.
	HeaderTotalPages = "X-Total-Pages"
)

// Sortable maps the public orderBy names of a resource to columns.
type Sortable map[string]string

// Options are the list parameters of one request.
type Options struct {
	Page     int
	PageSize int
	// Column is the resolved sort column, never raw user input.
	Column string
	Desc   bool
	Search string
}

// Parse reads page, pageSize, orderBy, orderDirection and recherche.
// An orderBy outside sortable is a validation error, defaultOrder must be one of its keys.
func Parse(c *fiber.Ctx, sortable Sortable, defaultOrder string) (Options, error) {
	opts := Options{
		Page:     1,
		PageSize: DefaultPageSize,
		Column:   sortable[defaultOrder],
		Search:   strings.TrimSpace(c.Query("recherche")),
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return opts, apperr.Validation("invalid page %q", raw)
		}

		opts.Page = max(page, 1)
	}

	if raw := c.Query("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return opts, apperr.Validation("invalid pageSize %q", raw)
		}

		if size >= 1 {
			opts.PageSize = min(size, MaxPageSize)
		}
	}

	opts.Page = min(opts.Page, lastPage(opts.PageSize))

	if raw := c.Query("orderBy"); raw != "" {
		column, ok := sortable[raw]
		if !ok {
			return opts, apperr.Validation("cannot order by %q", raw)
		}

		opts.Column = column
	}

	switch strings.ToLower(c.Query("orderDirection")) {
	case "", "asc":
	case "desc":
		opts.Desc = true
	default:
		return opts, apperr.Validation("orderDirection must be asc or desc")
	}

	return opts, nil
}

// lastPage is the highest page whose offset fits a 32 bit OFFSET.
func lastPage(size int) int {
	return math.MaxInt32/max(size, 1) + 1
}

// Offset of the first row of the page, at most math.MaxInt32.
func (o Options) Offset() int {
	page := min(max(o.Page, 1), lastPage(o.PageSize))

	return (page - 1) * max(o.PageSize, 0)
}

// Apply adds ordering and paging to tx.
func (o Options) Apply(tx *gorm.DB) *gorm.DB {
	if o.Column != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}

	return tx.Offset(o.Offset()).Limit(o.PageSize)
}

// Match filters tx to rows where any of columns contains the search term, case insensitive.
func (o Options) Match(tx *gorm.DB, columns ...string) *gorm.DB {
	if o.Search == "" || len(columns) == 0 {
		return tx
	}

	pattern := "%" + strings.ToLower(o.Search) + "%"

	var cond *gorm.DB
	for _, col := range columns {
		expr := clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []any{clause.Column{Name: col}, pattern}}
		if cond == nil {
			cond = tx.Session(&gorm.Session{NewDB: true}).Where(expr)
		} else {
			cond = cond.Or(expr)
		}
	}

	return tx.Where(cond)
}

// TotalPages for total rows.
func (o Options) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}

	return int(math.Ceil(float64(total) / float64(o.PageSize)))
}

// SetHeaders writes the paging headers of a list response.
func SetHeaders(c *fiber.Ctx, o Options, total int64) {
	c.Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	c.Set(HeaderPage, strconv.Itoa(o.Page))
	c.Set(HeaderPageSize, strconv.Itoa(o.PageSize))
	c.Set(HeaderTotalPages, strconv.Itoa(o.TotalPages(total)))
}

// Find counts the rows of tx and loads the requested page into dest.
func Find[T any](tx *gorm.DB, o Options, dest *[]T) (int64, error) {
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err //nolint:wrapcheck
	}

	if err := o.Apply(tx).Find(dest).Error; err != nil {
		return 0, err //nolint:wrapcheck
	}

	return total, nil
}
