package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/auth"
)

func TestTranslateKeepsMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperr.Kind
		want string
	}{
		{
			name: "percent in validation message",
			err:  fmt.Errorf("%w: 100%% enrolled", auth.ErrTOTPAlreadyEnabled),
			kind: apperr.KindValidation,
			want: "two factor authentication already enabled: 100% enrolled",
		},
		{
			name: "percent in forbidden message",
			err:  fmt.Errorf("%w (%%d)", auth.ErrUserAccountDisabled),
			kind: apperr.KindForbidden,
			want: "user account is disabled (%d)",
		},
		{
			name: "invalid credentials",
			err:  auth.ErrInvalidCredentials,
			kind: apperr.KindUnauthorized,
			want: auth.ErrInvalidCredentials.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)

			assert.Equal(t, tt.kind, apperr.KindOf(got))
			assert.True(t, errors.Is(got, tt.err))

			msg, _ := apperr.Public(got)
			require.Equal(t, tt.want, msg)
		})
	}
}
