package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/domain/timeline"
	"github.com/rpggio/staffboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{timeline.ErrHourLocked, "HOUR_LOCKED"},
		{fmt.Errorf("wrapped: %w", timeline.ErrInvalidDate), "INVALID_DATE"},
		{timeline.ErrInvalidHour, "INVALID_HOUR"},
		{notification.ErrInvalidInput, "INVALID_INPUT"},
		{notification.ErrNotFound, "NOTIFICATION_NOT_FOUND"},
		{fmt.Errorf("marking n1: %w", repository.ErrNotFound), "NOTIFICATION_NOT_FOUND"},
		{notification.ErrUnsupported, "UNSUPPORTED"},
		{fmt.Errorf("%w: nope", ErrUnknownMethod), "METHOD_NOT_FOUND"},
	}
	for _, tc := range cases {
		apiErr := MapError(tc.err)
		require.NotNil(t, apiErr, tc.err.Error())
		require.Equal(t, tc.code, apiErr.Code)
	}

	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("disk full")))
}
