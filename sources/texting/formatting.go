package texting

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

func Currencify(value float64) string {
	return fmt.Sprintf("$%s", humanize.CommafWithDigits(value, 4))
}

func CurrencifyDecimal(value decimal.Decimal) string {
	return Currencify(value.InexactFloat64())
}

func Numberify(value int64) string {
	return humanize.Comma(value)
}

func Bytify(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

// Secondify rounds a wait up to whole seconds, never below one.
func Secondify(d time.Duration) int {
	seconds := int((d + time.Second - 1) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}
