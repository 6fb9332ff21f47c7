package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"finance-coach/domain"
	"finance-coach/service"
)

const multipartMemory = 8 << 20

// readUpload parses a multipart form and returns the named file's content.
func readUpload(r *http.Request, field string) ([]byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	file, _, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, fmt.Errorf("%w: missing %q", service.ErrEmptyUpload, field)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// formContext reads the financial context sent next to an upload.
// Missing fields are zero.
func formContext(r *http.Request) (domain.FinancialContext, error) {
	var fc domain.FinancialContext
	fields := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"current_balance", &fc.CurrentBalance},
		{"total_debt", &fc.TotalDebt},
		{"monthly_payment", &fc.MonthlyPayment},
	}
	for _, f := range fields {
		raw := r.FormValue(f.name)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.FinancialContext{}, fmt.Errorf("%w: %s is not a number", errInvalidBody, f.name)
		}
		*f.dst = v
	}
	return fc, nil
}
