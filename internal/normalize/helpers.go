package normalize

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"polyterminal/internal/gamma"
)

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func flagPtr(f *gamma.Flag) *bool {
	if f == nil {
		return nil
	}
	b := f.Bool()
	return &b
}

func numDecimal(n *gamma.Number) *decimal.Decimal {
	if n == nil {
		return nil
	}
	d := decimal.NewFromFloat(n.Float64())
	return &d
}

func numFloat(n *gamma.Number) *float64 {
	if n == nil {
		return nil
	}
	f := n.Float64()
	return &f
}

func numInt(n *gamma.Number) *int {
	if n == nil {
		return nil
	}
	i := int(n.Float64())
	return &i
}

func tsPtr(t *gamma.Timestamp) *time.Time {
	return t.TimePtr()
}

// mustJSON keeps the source document alongside the normalized columns. A
// document that decoded cannot fail to re-encode; the fallback is paranoia.
func mustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}
