package basket

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/basket-service/basket_service/internal/domain/entities"
)

const currencyINR = "INR"

// ExportCSV writes the projection table with values rounded to whole rupees
func ExportCSV(w io.Writer, basketName string, rows []entities.ProjectionRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Year",
		fmt.Sprintf("%s Returns (₹)", basketName),
		"Nifty Index Returns (₹)",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Year),
			wholeRupees(row.BasketValue).String(),
			wholeRupees(row.BenchmarkValue).String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.Year, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename is the download name offered for a basket's projection
func ExportFilename(basketID string, horizon entities.Horizon) string {
	return fmt.Sprintf("%s-projection-%s.csv", basketID, horizon)
}

// FormatINR renders an amount in rupees, rounded to the nearest rupee
func FormatINR(amount float64) string {
	paise := wholeRupees(amount).Shift(2).IntPart()
	return money.New(paise, currencyINR).Display()
}

func wholeRupees(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(0)
}
