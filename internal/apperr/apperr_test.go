package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad %s", "input"), http.StatusBadRequest},
		{apperr.Unauthorized("who"), http.StatusUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.NotFound("club"), http.StatusNotFound},
		{apperr.Conflict("changed"), http.StatusConflict},
		{apperr.Internal(errors.New("db down"), "load"), http.StatusInternalServerError}, //nolint:err113
		{errors.New("plain"), http.StatusInternalServerError},                             //nolint:err113
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.HTTPStatus(apperr.KindOf(tt.err)))
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading: %w", apperr.NotFound("mandat"))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NotErrorIs(t, err, apperr.ErrForbidden)
}

func TestFromDB(t *testing.T) {
	require.NoError(t, apperr.FromDB(nil, "club"))

	err := apperr.FromDB(gorm.ErrRecordNotFound, "club")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	msg, _ := apperr.Public(err)
	assert.Equal(t, "club not found", msg)

	err = apperr.FromDB(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "club")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = apperr.FromDB(errors.New("connection reset"), "club") //nolint:err113
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	forbidden := apperr.Forbidden("nope")
	assert.Same(t, forbidden, apperr.FromDB(forbidden, "club"))
}

func TestPublicHidesInternal(t *testing.T) {
	msg, fields := apperr.Public(apperr.Internal(errors.New("password=secret"), "query failed")) //nolint:err113
	assert.Equal(t, apperr.InternalMessage, msg)
	assert.Nil(t, fields)

	msg, fields = apperr.Public(apperr.ValidationFields(map[string]string{"name": "required"}))
	assert.Equal(t, "validation failed", msg)
	assert.Equal(t, map[string]string{"name": "required"}, fields)
}
