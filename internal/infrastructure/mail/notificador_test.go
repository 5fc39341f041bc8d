package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catamarca-exporta/padron-api/internal/application/registro"
	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

func TestRenderizar_ReemplazaMarcadores(t *testing.T) {
	asunto, cuerpo, err := Renderizar(registro.PlantillaCredencialesIniciales, map[string]string{
		"nombre":       "María",
		"razon_social": "Nogales del Oeste SRL",
		"email":        "contacto@nogales.com.ar",
		"password":     "20304050607",
	})
	require.NoError(t, err)

	assert.Contains(t, asunto, "Alta aprobada")
	assert.Contains(t, cuerpo, "Estimado/a María:")
	assert.Contains(t, cuerpo, "Nogales del Oeste SRL")
	assert.Contains(t, cuerpo, "Usuario: contacto@nogales.com.ar")
	assert.Contains(t, cuerpo, "Contraseña: 20304050607")
}

func TestRenderizar_VariableSobrante(t *testing.T) {
	// Una variable que la plantilla no usa se ignora sin error.
	_, cuerpo, err := Renderizar(registro.PlantillaRechazo, map[string]string{
		"nombre":       "Pedro",
		"razon_social": "Agro Andina SA",
		"motivo":       "CUIT inconsistente",
		"password":     "no-aparece",
	})
	require.NoError(t, err)

	assert.Contains(t, cuerpo, "Motivo: CUIT inconsistente")
	assert.NotContains(t, cuerpo, "no-aparece")
}

func TestRenderizar_ReenvioConYSinPassword(t *testing.T) {
	base := map[string]string{
		"nombre":       "María",
		"razon_social": "Nogales del Oeste SRL",
		"email":        "contacto@nogales.com.ar",
	}

	_, sinReset, err := Renderizar(registro.PlantillaCredencialesReenvio, base)
	require.NoError(t, err)
	assert.Contains(t, sinReset, "sigue vigente")
	assert.NotContains(t, sinReset, "{{")
	assert.NotContains(t, sinReset, "<no value>")

	conPassword := map[string]string{"password": "20304050607"}
	for k, v := range base {
		conPassword[k] = v
	}
	_, conReset, err := Renderizar(registro.PlantillaCredencialesReenvio, conPassword)
	require.NoError(t, err)
	assert.Contains(t, conReset, "Contraseña: 20304050607")
	assert.NotContains(t, conReset, "sigue vigente")
}

// Los juegos de variables de esta tabla son exactamente los que arman los
// casos de uso al emitir cada plantilla; si acá queda un marcador sin
// resolver, el correo real también saldría roto.
func TestRenderizar_VariablesDelWorkflow(t *testing.T) {
	casos := map[string]map[string]string{
		registro.PlantillaCredencialesIniciales: {
			"nombre": "María", "razon_social": "Nogales SRL",
			"email": "c@n.com.ar", "password": "20304050607",
		},
		registro.PlantillaCredencialesReenvio: {
			"nombre": "María", "razon_social": "Nogales SRL", "email": "c@n.com.ar",
		},
		registro.PlantillaTokenRecuperacion: {
			"nombre": "María", "token": "abc123", "vigencia": "24 horas",
		},
		registro.PlantillaAprobacion: {
			"nombre": "Pedro", "razon_social": "Nogales SRL",
		},
		registro.PlantillaRechazo: {
			"nombre": "María", "razon_social": "Nogales SRL", "motivo": "incompleta",
		},
	}
	for nombre, variables := range casos {
		asunto, cuerpo, err := Renderizar(nombre, variables)
		require.NoError(t, err, nombre)
		for _, texto := range []string{asunto, cuerpo} {
			assert.NotContains(t, texto, "{{", "plantilla %s", nombre)
			assert.NotContains(t, texto, "<no value>", "plantilla %s", nombre)
		}
	}
}

func TestRenderizar_PlantillaDesconocida(t *testing.T) {
	_, _, err := Renderizar("boletin_mensual", nil)
	assert.ErrorIs(t, err, domain.ErrNoSoportado)
}

func TestConsolaNotificador_PlantillaDesconocida(t *testing.T) {
	n := NewConsolaNotificador(logger.NewNop())
	err := n.Enviar(context.Background(), "inexistente", "a@b.com", nil)
	assert.ErrorIs(t, err, domain.ErrNoSoportado)
}
