package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cwrk-planet/course-relay/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.ErrInvalidUser, http.StatusBadRequest, "Invalid user"},
		{fmt.Errorf("create: %w", domain.ErrInvalidUser), http.StatusBadRequest, "Invalid user"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "invalid input"},
		{fmt.Errorf("decode: %w", domain.ErrInvalidCursor), http.StatusBadRequest, "invalid_cursor"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{ErrUnavailable, http.StatusServiceUnavailable, "service unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, ToHTTP(tt.err))
			assert.Equal(t, tt.msg, Message(tt.err))
		})
	}
}
