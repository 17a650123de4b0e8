package analytics

import (
	"testing"
	"time"

	"equityLens/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyProfit(t *testing.T) {
	trades := []domain.TradeRecord{
		{ExitDate: time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC), ExitProfit: 10},
		{ExitDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ExitProfit: -4},
		{ExitDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ExitProfit: 5},
	}

	months := MonthlyProfit(trades)
	require.Len(t, months, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), months[0].Month)
	assert.Equal(t, -4.0, months[0].Profit)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), months[1].Month)
	assert.Equal(t, 15.0, months[1].Profit)

	assert.Empty(t, MonthlyProfit(nil))
}
