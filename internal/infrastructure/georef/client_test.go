package georef

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

func clienteDePrueba(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.GeorefConfig{
		BaseURL:        srv.URL,
		ProvinciaID:    "10",
		TamanoPagina:   2,
		SolicitudesSeg: 1000, // sin espera en tests
	}, logger.NewNop())
}

func TestMunicipiosPagina(t *testing.T) {
	// Tres municipios con páginas de dos: el cliente debe pedir dos páginas.
	todos := []map[string]any{
		{"id": "100077", "nombre": "Valle Viejo", "departamento": map[string]any{"id": "10105"}, "provincia": map[string]any{"id": "10"}},
		{"id": "100049", "nombre": "Fiambalá", "departamento": map[string]any{"id": "10098"}, "provincia": map[string]any{"id": "10"}},
		{"id": "100014", "nombre": "Belén", "departamento": map[string]any{"id": "10021"}, "provincia": map[string]any{"id": "10"}},
	}
	var llamadas int
	c := clienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		llamadas++
		require.Equal(t, "/municipios", r.URL.Path)
		require.Equal(t, "10", r.URL.Query().Get("provincia"))
		inicio, _ := strconv.Atoi(r.URL.Query().Get("inicio"))
		fin := inicio + 2
		if fin > len(todos) {
			fin = len(todos)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"municipios": todos[inicio:fin],
			"total":      len(todos),
			"cantidad":   fin - inicio,
			"inicio":     inicio,
		})
	})

	municipios, err := c.Municipios(context.Background(), "10")
	require.NoError(t, err)
	assert.Len(t, municipios, 3)
	assert.Equal(t, 2, llamadas)
	assert.Equal(t, "Valle Viejo", municipios[0].Nombre)
	assert.Equal(t, "10105", municipios[0].DepartamentoID)
}

func TestAsentamientosMunicipioNulo(t *testing.T) {
	c := clienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/asentamientos", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"asentamientos": []map[string]any{
				{
					"id": "10049010000", "nombre": "El Peñón",
					"departamento": map[string]any{"id": "10049", "nombre": "Antofagasta de la Sierra"},
					"municipio":    map[string]any{"id": nil},
					"provincia":    map[string]any{"id": "10", "nombre": "Catamarca"},
				},
				{
					"id": "10105020000", "nombre": "San Isidro",
					"departamento": map[string]any{"id": "10105", "nombre": "Valle Viejo"},
					"municipio":    map[string]any{"id": "100077"},
					"provincia":    map[string]any{"id": "10", "nombre": "Catamarca"},
				},
			},
			"total":    2,
			"cantidad": 2,
			"inicio":   0,
		})
	})

	provincia, departamentos, localidades, err := c.Asentamientos(context.Background(), "10")
	require.NoError(t, err)
	require.NotNil(t, provincia)
	assert.Equal(t, "Catamarca", provincia.Nombre)
	assert.Len(t, departamentos, 2)
	require.Len(t, localidades, 2)

	// La localidad sin municipio queda con referencia nula: es un estado legal.
	assert.Nil(t, localidades[0].MunicipioID)
	require.NotNil(t, localidades[1].MunicipioID)
	assert.Equal(t, "100077", *localidades[1].MunicipioID)
}

func TestErrorHTTP(t *testing.T) {
	c := clienteDePrueba(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Municipios(context.Background(), "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
