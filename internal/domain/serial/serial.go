// Package serial genera folios legibles para activos y pedidos.
package serial

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Prefijos de folio por tipo de entidad.
const (
	PrefixCylinder = "CIL"
	PrefixTank     = "TAN"
	PrefixOrder    = "PED"
)

const randSuffixLen = 4

var randChars = []rune("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Generate produce un folio con formato <prefijo>-<epoch base36>-<4 alfanum>.
// La unicidad real la garantiza el índice único por tenant en la base; el
// sufijo aleatorio solo evita colisiones dentro del mismo segundo.
func Generate(prefix string) string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().Unix(), 36))
	b := make([]rune, randSuffixLen)
	for i := range b {
		b[i] = randChars[rand.Intn(len(randChars))]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, ts, string(b))
}
