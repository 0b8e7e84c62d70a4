package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/service-stock-api/internal/domain/catalog"
)

func TestNameKey_IgnoraMayusculasYEspacios(t *testing.T) {
	assert.Equal(t, catalog.NameKey("pantalla oled"), catalog.NameKey("  Pantalla   OLED "))
}

func TestNameKey_Unicode(t *testing.T) {
	assert.Equal(t, catalog.NameKey("BATERÍA"), catalog.NameKey("batería"))
	assert.Equal(t, catalog.NameKey("Straße"), catalog.NameKey("STRASSE"))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Galaxy S21", catalog.CleanName("  Galaxy   S21 "))
}
