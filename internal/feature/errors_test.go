package feature

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "invalid input",
			err:  &InvalidInputError{Input: "4811", Reason: "county code must be 5 digits"},
			want: `invalid input "4811": county code must be 5 digits`,
		},
		{
			name: "unresolved identifier",
			err:  &UnresolvedIdentifierError{Kind: "state", Input: "Zzzland"},
			want: `could not resolve state "Zzzland"`,
		},
		{
			name: "not found",
			err:  &NotFoundError{Kind: "place", Value: "Gotham"},
			want: `no place boundary found for "Gotham"`,
		},
		{
			name: "missing crs",
			err:  &MissingCRSError{Subject: "layer roads"},
			want: "layer roads has no coordinate reference system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	invalid := &InvalidInputError{Input: "x", Reason: "r"}
	unresolved := &UnresolvedIdentifierError{Kind: "state", Input: "x"}
	notFound := &NotFoundError{Kind: "state", Value: "99"}
	missingCRS := &MissingCRSError{Subject: "boundary"}

	assert.True(t, IsInvalidInput(invalid))
	assert.False(t, IsInvalidInput(unresolved))

	assert.True(t, IsUnresolved(unresolved))
	assert.False(t, IsUnresolved(notFound))

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(missingCRS))

	assert.True(t, IsMissingCRS(missingCRS))
	assert.False(t, IsMissingCRS(invalid))

	assert.False(t, IsInvalidInput(nil))
	assert.False(t, IsMissingCRS(nil))
}

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	t.Parallel()

	err := eris.Wrap(&MissingCRSError{Subject: "layer counties"}, "clip: validate inputs")
	assert.True(t, IsMissingCRS(err))
	assert.False(t, IsNotFound(err))

	err = eris.Wrap(&UnresolvedIdentifierError{Kind: "county", Input: "99999"}, "pipeline: resolve")
	assert.True(t, IsUnresolved(err))
}
