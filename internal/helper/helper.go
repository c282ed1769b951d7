package helper

import (
	"strings"

	"github.com/shopspring/decimal"
)

// percentScale — 3Commas отдаёт проценты с двумя знаками после запятой.
const percentScale = 2

// ParsePercent разбирает процент из строкового поля 3Commas ("4.07", "-1.50").
// Пустая строка — это валидный ноль (поле может отсутствовать у свежих сделок).
func ParsePercent(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(percentScale), nil
}

// Percent приводит значение из конфига к точности платформы,
// чтобы сравнения не дребезжали на float-хвостах.
func Percent(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(percentScale)
}

// FormatPercent — каноничный вид для логов и Telegram ("2%", "4.5%").
func FormatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}
