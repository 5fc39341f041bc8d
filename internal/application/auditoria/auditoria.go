// Package auditoria define el actor de una operación y la lectura del
// registro. Las entradas se escriben con llamadas explícitas desde los casos
// de uso, dentro de la misma transacción que la acción que describen.
package auditoria

import (
	"context"

	"github.com/google/uuid"

	"github.com/catamarca-exporta/padron-api/internal/application/dto"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

// Actor identifica quién ejecuta una operación auditable. UsuarioID vacío
// significa acción anónima (ej. alta pública de solicitud).
type Actor struct {
	UsuarioID string
	IP        string
	UserAgent string
}

// Entrada arma una entrada de auditoría atribuida a este actor.
func (a Actor) Entrada(accion, modelo, objetoID, objetoRepr string, cambios map[string]any) *entity.AuditoriaLog {
	var usuarioID *string
	if a.UsuarioID != "" {
		id := a.UsuarioID
		usuarioID = &id
	}
	e := entity.NuevaAuditoria(usuarioID, accion, modelo, objetoID, objetoRepr, cambios)
	e.ID = uuid.New().String()
	e.IPAddress = a.IP
	e.UserAgent = a.UserAgent
	return e
}

// UseCase lectura filtrada del registro de auditoría.
type UseCase struct {
	repo repository.AuditoriaRepository
}

// NewUseCase construye el caso de uso de lectura.
func NewUseCase(repo repository.AuditoriaRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List devuelve entradas por acción, modelo o actor, más recientes primero.
func (uc *UseCase) List(ctx context.Context, f repository.FiltroAuditoria, limit, offset int) (*dto.AuditoriaListResponse, error) {
	entradas, err := uc.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditoriaResponse, 0, len(entradas))
	for _, e := range entradas {
		items = append(items, dto.AuditoriaResponse{
			ID:         e.ID,
			UsuarioID:  e.UsuarioID,
			Accion:     e.Accion,
			Modelo:     e.Modelo,
			ObjetoID:   e.ObjetoID,
			ObjetoRepr: e.ObjetoRepr,
			Cambios:    e.Cambios,
			IPAddress:  e.IPAddress,
			UserAgent:  e.UserAgent,
			Timestamp:  e.Timestamp,
		})
	}
	return &dto.AuditoriaListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
