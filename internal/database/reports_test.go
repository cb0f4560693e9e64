package database

import (
	"testing"
	"time"

	"go-pos-sync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSalesReport(t *testing.T) {
	db := newTestDB(t)

	company := models.Company{Name: "Corner Shop", IsActive: true}
	require.NoError(t, db.Create(&company).Error)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sales := []models.Sale{
		{CompanyID: company.ID, UserID: 1, GrandTotal: 10.00, SaleTime: day.Add(9 * time.Hour)},
		// Last minute of the day still belongs to it
		{CompanyID: company.ID, UserID: 1, GrandTotal: 5.00, SaleTime: day.Add(23*time.Hour + 59*time.Minute + 30*time.Second)},
		{CompanyID: company.ID, UserID: 1, GrandTotal: 99.00, SaleTime: day.AddDate(0, 0, 1).Add(time.Second)},
	}
	for i := range sales {
		require.NoError(t, db.Create(&sales[i]).Error)
	}

	t.Run("covers the whole end day, nothing past it", func(t *testing.T) {
		report, err := GetSalesReport(db, company.ID, day, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, 15.00, report.TotalRevenue)
		assert.Equal(t, int64(2), report.TotalCount)
	})

	t.Run("empty window reports zero, not null", func(t *testing.T) {
		report, err := GetSalesReport(db, company.ID, day.AddDate(0, -1, 0), day)
		require.NoError(t, err)
		assert.Equal(t, 0.00, report.TotalRevenue)
		assert.Equal(t, int64(0), report.TotalCount)
	})

	t.Run("scoped to the requesting company", func(t *testing.T) {
		other := models.Company{Name: "Other Shop", IsActive: true}
		require.NoError(t, db.Create(&other).Error)

		report, err := GetSalesReport(db, other.ID, day, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(0), report.TotalCount)
	})
}
