package blocks

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	now := time.Date(2030, 1, 7, 12, 0, 0, 0, time.UTC)

	from, to, err := parsePeriod(url.Values{}, now)
	require.NoError(t, err)
	assert.Equal(t, now, from)
	assert.Equal(t, now.AddDate(0, 0, defaultListDays), to)

	from, to, err = parsePeriod(url.Values{"from": {"2030-02-01"}, "to": {"2030-02-10T00:00:00Z"}}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2030, 2, 10, 0, 0, 0, 0, time.UTC), to)

	_, _, err = parsePeriod(url.Values{"to": {"soon"}}, now)
	assert.Error(t, err)
}
