package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var orderExportHeaders = []string{"Order No", "Store", "Time", "Product", "Quantity", "Unit", "Total", "Base Unit", "Status"}

// ExportOrders exports the filtered order history to CSV or Excel
// GET /admin/orders/export?format=xlsx|csv
func (h *OrderHandler) ExportOrders(c *fiber.Ctx) error {
	format := c.Query("format", "csv")
	if format != "csv" && format != "xlsx" {
		return badRequest(c, "format must be csv or xlsx")
	}

	orders, err := h.reports.Orders(c.UserContext(), orderQuery(c))
	if err != nil {
		return respondError(c, err)
	}

	data := make([][]string, 0, len(orders))
	for _, o := range orders {
		data = append(data, []string{
			o.OrderNo, spreadsheetSafe(o.Store), o.Time, spreadsheetSafe(o.Product),
			strconv.Itoa(o.Quantity), spreadsheetSafe(o.UnitName), o.CalculatedQty.String(), o.BaseUnit, o.Status,
		})
	}

	var (
		body  []byte
		ctype string
	)
	if format == "xlsx" {
		body, err = excelBytes("Orders", orderExportHeaders, data)
		ctype = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	} else {
		body, err = csvBytes(orderExportHeaders, data)
		ctype = "text/csv"
	}
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, ctype)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=orders.%s", format))
	return c.Send(body)
}

// spreadsheetSafe stops free text such as store names from being evaluated as a
// formula when the export is opened in a spreadsheet.
func spreadsheetSafe(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func csvBytes(headers []string, data [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func excelBytes(sheetName string, headers []string, data [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheetName, "A", last, 18)

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
