package consignment

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// HealthcareBill is the charge for boarding a healthcare item
type HealthcareBill struct {
	Days  int
	Total decimal.Decimal
}

// BillHealthcare charges the daily fee for every started day since the
// item was taken in. A checkout within the first hour still bills one day.
func BillHealthcare(fee decimal.Decimal, takenInAt, now time.Time) HealthcareBill {
	hours := now.Sub(takenInAt).Hours()
	days := int(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return HealthcareBill{
		Days:  days,
		Total: fee.Mul(decimal.NewFromInt(int64(days))),
	}
}
