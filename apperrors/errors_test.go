package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidTransition, http.StatusBadRequest},
		{ErrAlreadyClosed, http.StatusBadRequest},
		{ErrNotAuthorized, http.StatusForbidden},
		{ErrDuplicateFeedback, http.StatusConflict},
		{ErrDuplicateRegistration, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
		{ErrNoRecipients, http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestHTTPStatusSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: Pending -> Closed", ErrInvalidTransition)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(wrapped))

	wrapped = fmt.Errorf("%w: WrongSector", ErrNotAuthorized)
	assert.Equal(t, http.StatusForbidden, HTTPStatus(wrapped))
}
