// Package stock contiene la aritmética del kardex en m²: validación de cantidades,
// delta por tipo de movimiento y cálculo del nuevo saldo.
package stock

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

// MaxScale decimales admitidos en m².
const MaxScale = 4

// MaxIntegerDigits dígitos enteros admitidos; cantidades y saldos son NUMERIC(18,4).
const MaxIntegerDigits = 14

// MaxQuantity cota superior exclusiva de cantidades y saldos (10^14).
var MaxQuantity = decimal.New(1, MaxIntegerDigits)

const maxQuantityLen = 32

// ParseQuantity convierte texto en una cantidad positiva en m².
// Acepta coma o punto decimal ("12,5" == "12.5"). Vacío, no numérico, <= 0, >= MaxQuantity
// o con más de MaxScale decimales -> ErrInvalidQuantity.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	s := NormalizeDecimal(raw)
	if s == "" || len(s) > maxQuantityLen {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	if err := ValidateQuantity(q); err != nil {
		return decimal.Zero, err
	}
	return q, nil
}

// NormalizeDecimal recorta espacios y convierte una única coma decimal en punto.
func NormalizeDecimal(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

// ValidateQuantity exige 0 < q < MaxQuantity y como máximo MaxScale decimales.
func ValidateQuantity(q decimal.Decimal) error {
	if !q.IsPositive() || !withinRange(q) {
		return domain.ErrInvalidQuantity
	}
	if extra := -int(q.Exponent()) - MaxScale; extra > 0 {
		// Un coeficiente de n dígitos no puede terminar en más de n ceros.
		if extra > q.NumDigits() || !q.Equal(q.Truncate(MaxScale)) {
			return domain.ErrInvalidQuantity
		}
	}
	return nil
}

// withinRange |d| < 10^MaxIntegerDigits, decidido por dígitos y exponente sin reescalar.
func withinRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	return d.NumDigits()+int(d.Exponent()) <= MaxIntegerDigits
}

// ValidKind informa si kind es entrada o saida.
func ValidKind(kind string) bool {
	return kind == entity.MovementEntrada || kind == entity.MovementSaida
}

// Delta +q para entrada, -q para saida.
func Delta(kind string, q decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case entity.MovementEntrada:
		return q, nil
	case entity.MovementSaida:
		return q.Neg(), nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// Apply devuelve el saldo resultante de aplicar el movimiento sobre current.
// Una saida que deja el saldo negativo -> ErrInsufficientBalance; un saldo >= MaxQuantity
// -> ErrInvalidQuantity.
func Apply(current decimal.Decimal, kind string, q decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateQuantity(q); err != nil {
		return current, err
	}
	delta, err := Delta(kind, q)
	if err != nil {
		return current, err
	}
	next := current.Add(delta)
	if kind == entity.MovementSaida && next.IsNegative() {
		return current, domain.ErrInsufficientBalance
	}
	if !withinRange(next) {
		return current, domain.ErrInvalidQuantity
	}
	return next, nil
}

// Sum saldo derivado del kardex: Σ entrada − Σ saida.
func Sum(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		d, err := Delta(m.Kind, m.Quantity)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	return total
}
