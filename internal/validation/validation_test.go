package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Handle string `json:"handle" validate:"required"`
	Given  string `json:"given_name" validate:"required,alpha"`
	Kills  *int   `json:"kills" validate:"required,min=0"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(samplePayload{Given: "Mira 7", Date: "not-a-date"})
	require.Error(t, err)

	byField := make(map[string]string)
	for _, fe := range Fields(err) {
		byField[fe.Field] = fe.Error
	}

	require.Equal(t, "is required", byField["handle"])
	require.Equal(t, "must contain only letters", byField["given_name"])
	require.Equal(t, "is required", byField["kills"])
	require.Equal(t, "must be a date in YYYY-MM-DD format", byField["date"])
}

func TestStructAcceptsZeroKills(t *testing.T) {
	zero := 0
	err := Struct(samplePayload{Handle: "mira", Given: "Mira", Kills: &zero, Date: "2024-01-02"})
	require.NoError(t, err)
}

func TestFieldsPassesCustomErrorsThrough(t *testing.T) {
	err := Errors{{Field: "end", Error: "must not be before start"}}
	fields := Fields(err)
	require.Len(t, fields, 1)
	require.Equal(t, "end", fields[0].Field)
}

func TestRequireDate(t *testing.T) {
	got, ferr := RequireDate("start", "2024-02-29")
	require.Nil(t, ferr)
	require.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), got)

	_, ferr = RequireDate("start", "")
	require.NotNil(t, ferr)
	require.Equal(t, "is required", ferr.Error)

	_, ferr = RequireDate("start", "29-02-2024")
	require.NotNil(t, ferr)
	require.Equal(t, "must be a date in YYYY-MM-DD format", ferr.Error)
}

func TestRequireNonNegativeInt(t *testing.T) {
	n, ferr := RequireNonNegativeInt("limit", "25")
	require.Nil(t, ferr)
	require.Equal(t, 25, n)

	_, ferr = RequireNonNegativeInt("limit", "")
	require.NotNil(t, ferr)
	require.Equal(t, "is required", ferr.Error)

	_, ferr = RequireNonNegativeInt("offset", "two")
	require.NotNil(t, ferr)
	require.Equal(t, "must be an integer", ferr.Error)

	_, ferr = RequireNonNegativeInt("offset", "-1")
	require.NotNil(t, ferr)
	require.Equal(t, "must not be negative", ferr.Error)
}
