package geografia_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catamarca-exporta/padron-api/internal/application/geografia"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/infrastructure/memoria"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

const provinciaID = "10"

func sembrar(t *testing.T) (*geografia.Reparador, *memoria.GeoRepo) {
	t.Helper()
	store := memoria.NewStore()
	repo := memoria.NewGeoRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.UpsertProvincia(ctx, &entity.Provincia{ID: provinciaID, Nombre: "Catamarca"}))
	require.NoError(t, repo.UpsertDepartamento(ctx, &entity.Departamento{ID: "10063", ProvinciaID: provinciaID, Nombre: "Fray Mamerto Esquiú"}))
	require.NoError(t, repo.UpsertDepartamento(ctx, &entity.Departamento{ID: "10035", ProvinciaID: provinciaID, Nombre: "Capital"}))
	require.NoError(t, repo.UpsertMunicipio(ctx, &entity.Municipio{ID: "m-sj", ProvinciaID: provinciaID, DepartamentoID: "10063", Nombre: "San José"}))

	return geografia.NewReparador(repo, logger.NewNop()), repo
}

func TestAsignarMunicipios_EmpataPorNombreEnElDepartamento(t *testing.T) {
	rep, repo := sembrar(t)
	ctx := context.Background()

	// Mismo nombre que el municipio, sin tilde y en otro casing.
	require.NoError(t, repo.UpsertLocalidad(ctx, &entity.Localidad{
		ID: "l1", ProvinciaID: provinciaID, DepartamentoID: "10063", Nombre: "SAN JOSE",
	}))
	// Mismo nombre pero en otro departamento: no debe empatar.
	require.NoError(t, repo.UpsertLocalidad(ctx, &entity.Localidad{
		ID: "l2", ProvinciaID: provinciaID, DepartamentoID: "10035", Nombre: "San José",
	}))
	// Sin municipio homónimo: queda como está, es un estado legal.
	require.NoError(t, repo.UpsertLocalidad(ctx, &entity.Localidad{
		ID: "l3", ProvinciaID: provinciaID, DepartamentoID: "10063", Nombre: "El Hueco",
	}))

	asignadas, err := rep.AsignarMunicipios(ctx, provinciaID)
	require.NoError(t, err)
	assert.Equal(t, 1, asignadas)

	l1, _ := repo.GetLocalidad(ctx, "l1")
	require.NotNil(t, l1.MunicipioID)
	assert.Equal(t, "m-sj", *l1.MunicipioID)
	l2, _ := repo.GetLocalidad(ctx, "l2")
	assert.Nil(t, l2.MunicipioID)
	l3, _ := repo.GetLocalidad(ctx, "l3")
	assert.Nil(t, l3.MunicipioID)
}

func TestAsignarMunicipios_Idempotente(t *testing.T) {
	rep, repo := sembrar(t)
	ctx := context.Background()
	require.NoError(t, repo.UpsertLocalidad(ctx, &entity.Localidad{
		ID: "l1", ProvinciaID: provinciaID, DepartamentoID: "10063", Nombre: "San José",
	}))

	asignadas, err := rep.AsignarMunicipios(ctx, provinciaID)
	require.NoError(t, err)
	assert.Equal(t, 1, asignadas)

	asignadas, err = rep.AsignarMunicipios(ctx, provinciaID)
	require.NoError(t, err)
	assert.Zero(t, asignadas, "la segunda pasada no toca nada")
}

func TestAsignarMunicipios_SobreviveAlReimport(t *testing.T) {
	rep, repo := sembrar(t)
	ctx := context.Background()
	require.NoError(t, repo.UpsertLocalidad(ctx, &entity.Localidad{
		ID: "l1", ProvinciaID: provinciaID, DepartamentoID: "10063", Nombre: "San José",
	}))
	_, err := rep.AsignarMunicipios(ctx, provinciaID)
	require.NoError(t, err)

	// El importador vuelve a traer la localidad sin municipio; el upsert
	// preserva la referencia ya reparada.
	require.NoError(t, repo.UpsertLocalidad(ctx, &entity.Localidad{
		ID: "l1", ProvinciaID: provinciaID, DepartamentoID: "10063", Nombre: "San José",
	}))
	l1, _ := repo.GetLocalidad(ctx, "l1")
	require.NotNil(t, l1.MunicipioID)
	assert.Equal(t, "m-sj", *l1.MunicipioID)
}
