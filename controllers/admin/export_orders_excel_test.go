package adminController

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/vansh565/Nexus-store/models"
	"github.com/vansh565/Nexus-store/testutil"
)

func TestBuildOrdersWorkbook(t *testing.T) {
	file, err := BuildOrdersWorkbook([]models.Order{{
		ID: 1, UserEmail: "ann@example.com", ProductID: "p1", Name: "Lamp", Price: "$1,000.50",
		Quantity: 2, Status: models.OrderStatusPending, CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	sheet, ok := file.Sheet["Orders"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "CreatedAt", sheet.Rows[0].Cells[len(orderHeaders)-1].Value)

	row := sheet.Rows[1]
	require.Len(t, row.Cells, len(orderHeaders))
	assert.Equal(t, "ann@example.com", row.Cells[1].Value)
	assert.Equal(t, "2001.00", row.Cells[6].Value)
	assert.Equal(t, "pending", row.Cells[9].Value)
	assert.Equal(t, "2024-05-01 10:00:00", row.Cells[10].Value)
}

func TestExportOrdersToExcel(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.Order{
		UserEmail: "ann@example.com", ProductID: "p1", Name: "Lamp", Price: "3", Quantity: 1,
		ShippingAddress: "x", PaymentMethod: "cod", Status: models.OrderStatusPending,
	}).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/export", ExportOrdersToExcel(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=orders-")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet["Orders"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Lamp", sheet.Rows[1].Cells[3].Value)
}
