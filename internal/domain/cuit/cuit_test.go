package cuit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catamarca-exporta/padron-api/internal/domain/cuit"
)

func TestSoloDigitos(t *testing.T) {
	assert.Equal(t, "20304050607", cuit.SoloDigitos("20-30405060-7"))
	assert.Equal(t, "30500010912", cuit.SoloDigitos("30.50001091/2"))
	assert.Equal(t, "", cuit.SoloDigitos("sin números"))
}

func TestValidar_Longitud(t *testing.T) {
	require.NoError(t, cuit.Validar("20-30405060-7"))
	assert.Error(t, cuit.Validar("2030405060"))   // 10 dígitos
	assert.Error(t, cuit.Validar("203040506071")) // 12 dígitos
	assert.Error(t, cuit.Validar(""))
}

func TestDigitoVerificador_VectoresConocidos(t *testing.T) {
	// 30-50001091-2: suma ponderada 64, resto 9, verificador 11-9 = 2.
	require.NoError(t, cuit.ValidarDigitoVerificador("30-50001091-2"))
	// 20-12345678-6: suma 148, resto 5, verificador 6.
	require.NoError(t, cuit.ValidarDigitoVerificador("20123456786"))
	// base 2000000000: suma 10, resto 10, verificador 11-10 = 1.
	dv, err := cuit.CalcularDigitoVerificador("2000000000")
	require.NoError(t, err)
	assert.Equal(t, byte('1'), dv)
}

func TestDigitoVerificador_Resto1SePliegaANueve(t *testing.T) {
	// base 2000000001: suma 12, resto 1 → sin representación, se usa 9.
	dv, err := cuit.CalcularDigitoVerificador("2000000001")
	require.NoError(t, err)
	assert.Equal(t, byte('9'), dv)
	require.NoError(t, cuit.ValidarDigitoVerificador("20000000019"))
}

func TestDigitoVerificador_Invalido(t *testing.T) {
	err := cuit.ValidarDigitoVerificador("30-50001091-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dígito verificador inválido")
}

func TestDigitoVerificador_BaseCorta(t *testing.T) {
	_, err := cuit.CalcularDigitoVerificador("123")
	assert.Error(t, err)
}
