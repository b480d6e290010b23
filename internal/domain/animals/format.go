package animals

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// CentikgPerKilogram es la única convención de peso del cliente: el backend
// envía centésimos de kilo enteros (500 => 5 kg) y se presentan en kilogramos.
const CentikgPerKilogram = 100

// Centikg es el peso codificado como entero, en centésimos de kilo.
type Centikg int

func (c Centikg) Kilograms() float64 {
	return float64(c) / CentikgPerKilogram
}

// String: "12.5 kg", "0.09 kg".
func (c Centikg) String() string {
	return humanize.FtoaWithDigits(c.Kilograms(), 2) + " kg"
}

// FromKilograms redondea a dos decimales.
func FromKilograms(kg float64) Centikg {
	if kg < 0 {
		return 0
	}
	return Centikg(kg*CentikgPerKilogram + 0.5)
}

// FormatDate convierte YYYY-MM-DD en DD/MM/YYYY. Vacío o malformado => "".
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// tolera timestamps tipo 2024-05-01T10:00:00
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", parts[2], parts[1], parts[0])
}

// FormatAge recibe meses: "1 mês", "5 meses", "1 ano", "3 anos".
func FormatAge(months int) string {
	if months < 12 {
		if months == 1 {
			return "1 mês"
		}
		return fmt.Sprintf("%d meses", months)
	}
	years := months / 12
	if years == 1 {
		return "1 ano"
	}
	return fmt.Sprintf("%d anos", years)
}
