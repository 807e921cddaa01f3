package adminController

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/models"
)

var orderHeaders = []string{
	"ID", "UserEmail", "ProductID", "Name", "Price", "Quantity", "LineTotal",
	"ShippingAddress", "PaymentMethod", "Status", "CreatedAt",
}

// BuildOrdersWorkbook renders orders into a single "Orders" sheet.
func BuildOrdersWorkbook(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range orderHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.UserEmail)
		row.AddCell().SetValue(o.ProductID)
		row.AddCell().SetValue(o.Name)
		row.AddCell().SetValue(o.Price)
		row.AddCell().SetValue(o.Quantity)
		row.AddCell().SetValue(fmt.Sprintf("%.2f", o.LineTotal()))
		row.AddCell().SetValue(o.ShippingAddress)
		row.AddCell().SetValue(o.PaymentMethod)
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.WithContext(c.Request.Context()).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file, err := BuildOrdersWorkbook(orders)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		name := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", "attachment; filename="+name)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
