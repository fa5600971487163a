package storeapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/paodecos/storefront/internal/webserver"
)

// exportProducts downloads the current catalog as csv (default) or xlsx.
func exportProducts(c echo.Context) error {
	products := webserver.AppCtx().Catalog().Products()

	switch c.QueryParam("format") {
	case "", "csv":
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		if err := gocsv.Marshal(&products, c.Response()); err != nil {
			return err
		}
		return nil
	case "xlsx":
		f := excelize.NewFile()
		headers := []string{"id", "name", "description", "characteristics", "price", "stock", "category", "image"}
		for i, h := range headers {
			f.SetCellValue("Sheet1", fmt.Sprintf("%c1", 'A'+i), h)
		}
		for row, p := range products {
			values := []interface{}{p.ID, p.Name, p.Description, p.Characteristics, p.Price, p.Stock, p.Category, p.Image}
			for col, v := range values {
				f.SetCellValue("Sheet1", fmt.Sprintf("%c%d", 'A'+col, row+2), v)
			}
		}
		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported export format", nil)
	}
}
