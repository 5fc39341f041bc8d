package texto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/catamarca-exporta/padron-api/internal/domain/texto"
)

func TestClave(t *testing.T) {
	assert.Equal(t, "consultoria", texto.Clave("Consultoría"))
	assert.Equal(t, "san fernando del valle", texto.Clave("  San  Fernando   del Valle "))
	assert.Equal(t, "nunez", texto.Clave("Núñez"))
}

func TestIgual(t *testing.T) {
	assert.True(t, texto.Igual("Consultoría", "consultoria"))
	assert.True(t, texto.Igual("OTRO", "Otro"))
	assert.False(t, texto.Igual("Cereales", "Legumbres"))
}
