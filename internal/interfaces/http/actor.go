package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/catamarca-exporta/padron-api/internal/application/auditoria"
)

// actorDesde arma el actor de auditoría de la petición: usuario del token
// (vacío en rutas públicas) más IP y user agent.
func actorDesde(c *fiber.Ctx) auditoria.Actor {
	return auditoria.Actor{
		UsuarioID: GetUserID(c),
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}
