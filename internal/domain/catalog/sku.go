package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const skuPrefixMax = 24

// GenerateSKU deriva un SKU del nombre: slug en mayúsculas más un sufijo aleatorio corto.
func GenerateSKU(name string) string {
	base := strings.ToUpper(slug.Make(name))
	if len(base) > skuPrefixMax {
		base = strings.TrimRight(base[:skuPrefixMax], "-")
	}
	if base == "" {
		base = "PRD"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return base + "-" + suffix
}

// NormalizeSKU limpia el SKU ingresado por el usuario.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
