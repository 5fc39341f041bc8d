// Package memoria implementa los puertos de persistencia sobre mapas en
// memoria. Lo usan las pruebas de los casos de uso: mismos contratos que los
// repositorios de PostgreSQL (duplicados, órdenes de listado, nil en ausencia)
// pero sin base de datos. No hay transacciones reales; el TxRunner ejecuta la
// función con repositorios atados al mismo Store.
package memoria

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/catamarca-exporta/padron-api/internal/domain"
	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	solicitudes   map[string]*entity.SolicitudRegistro
	usuarios      map[string]*entity.Usuario
	roles         map[string]*entity.Rol
	rubros        map[string]*entity.Rubro
	subrubros     map[string]*entity.SubRubro
	empresas      map[string]*entity.Empresa
	auditoria     []*entity.AuditoriaLog
	provincias    map[string]*entity.Provincia
	departamentos map[string]*entity.Departamento
	municipios    map[string]*entity.Municipio
	localidades   map[string]*entity.Localidad
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		solicitudes:   map[string]*entity.SolicitudRegistro{},
		usuarios:      map[string]*entity.Usuario{},
		roles:         map[string]*entity.Rol{},
		rubros:        map[string]*entity.Rubro{},
		subrubros:     map[string]*entity.SubRubro{},
		empresas:      map[string]*entity.Empresa{},
		provincias:    map[string]*entity.Provincia{},
		departamentos: map[string]*entity.Departamento{},
		municipios:    map[string]*entity.Municipio{},
		localidades:   map[string]*entity.Localidad{},
	}
}

// Auditoria devuelve las entradas escritas, en orden de inserción.
func (s *Store) Auditoria() []*entity.AuditoriaLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.AuditoriaLog, len(s.auditoria))
	copy(out, s.auditoria)
	return out
}

// SembrarRol inserta un rol directamente (armado de fixtures).
func (s *Store) SembrarRol(r *entity.Rol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *r
	s.roles[r.ID] = &c
}

// SembrarRubro inserta un rubro directamente.
func (s *Store) SembrarRubro(r *entity.Rubro) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *r
	s.rubros[r.ID] = &c
}

// SembrarSubRubro inserta un subrubro directamente.
func (s *Store) SembrarSubRubro(sr *entity.SubRubro) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sr
	s.subrubros[sr.ID] = &c
}

// SembrarGeografia inserta una provincia con un departamento.
func (s *Store) SembrarGeografia(p *entity.Provincia, d *entity.Departamento) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, cd := *p, *d
	s.provincias[p.ID] = &cp
	s.departamentos[d.ID] = &cd
}

// ── Solicitudes ──────────────────────────────────────────────────────────

type SolicitudRepo struct{ s *Store }

// NewSolicitudRepo implementa repository.SolicitudRepository.
func NewSolicitudRepo(s *Store) *SolicitudRepo { return &SolicitudRepo{s: s} }

func (r *SolicitudRepo) Crear(_ context.Context, sol *entity.SolicitudRegistro) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.solicitudes[sol.ID]; ok {
		return fmt.Errorf("%w: solicitud %s", domain.ErrDuplicado, sol.ID)
	}
	c := *sol
	r.s.solicitudes[sol.ID] = &c
	return nil
}

func (r *SolicitudRepo) GetByID(_ context.Context, id string) (*entity.SolicitudRegistro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sol, ok := r.s.solicitudes[id]
	if !ok {
		return nil, nil
	}
	c := *sol
	return &c, nil
}

// GetByIDParaActualizar no toma locks: las pruebas son secuenciales.
func (r *SolicitudRepo) GetByIDParaActualizar(ctx context.Context, id string) (*entity.SolicitudRegistro, error) {
	return r.GetByID(ctx, id)
}

func (r *SolicitudRepo) List(_ context.Context, estado string, limit, offset int) ([]*entity.SolicitudRegistro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SolicitudRegistro
	for _, sol := range r.s.solicitudes {
		if estado != "" && sol.Estado != estado {
			continue
		}
		c := *sol
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaCreacion.After(out[j].FechaCreacion) })
	return paginar(out, limit, offset), nil
}

func (r *SolicitudRepo) Update(_ context.Context, sol *entity.SolicitudRegistro) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.solicitudes[sol.ID]; !ok {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNoEncontrado, sol.ID)
	}
	c := *sol
	r.s.solicitudes[sol.ID] = &c
	return nil
}

func (r *SolicitudRepo) Eliminar(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.solicitudes, id)
	return nil
}

// ── Usuarios y roles ─────────────────────────────────────────────────────

type UsuarioRepo struct{ s *Store }

// NewUsuarioRepo implementa repository.UsuarioRepository.
func NewUsuarioRepo(s *Store) *UsuarioRepo { return &UsuarioRepo{s: s} }

func (r *UsuarioRepo) Crear(_ context.Context, u *entity.Usuario) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := entity.NormalizarEmail(u.Email)
	for _, otro := range r.s.usuarios {
		if entity.NormalizarEmail(otro.Email) == email {
			return fmt.Errorf("%w: %s", domain.ErrEmailYaRegistrado, u.Email)
		}
	}
	c := *u
	c.Email = email
	r.s.usuarios[u.ID] = &c
	return nil
}

func (r *UsuarioRepo) GetByID(_ context.Context, id string) (*entity.Usuario, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.usuarios[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UsuarioRepo) GetByEmail(_ context.Context, email string) (*entity.Usuario, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = entity.NormalizarEmail(email)
	for _, u := range r.s.usuarios {
		if entity.NormalizarEmail(u.Email) == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UsuarioRepo) GetByTokenRecuperacion(_ context.Context, tokenHash string) (*entity.Usuario, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.usuarios {
		if u.TokenRecuperacionHash != nil && *u.TokenRecuperacionHash == tokenHash {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UsuarioRepo) Update(_ context.Context, u *entity.Usuario) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.usuarios[u.ID]; !ok {
		return fmt.Errorf("%w: usuario %s", domain.ErrNoEncontrado, u.ID)
	}
	c := *u
	c.Email = entity.NormalizarEmail(u.Email)
	r.s.usuarios[u.ID] = &c
	return nil
}

func (r *UsuarioRepo) Eliminar(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.usuarios, id)
	return nil
}

func (r *UsuarioRepo) List(_ context.Context, limit, offset int) ([]*entity.Usuario, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Usuario
	for _, u := range r.s.usuarios {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginar(out, limit, offset), nil
}

type RolRepo struct{ s *Store }

// NewRolRepo implementa repository.RolRepository.
func NewRolRepo(s *Store) *RolRepo { return &RolRepo{s: s} }

func (r *RolRepo) Crear(_ context.Context, rol *entity.Rol) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *rol
	r.s.roles[rol.ID] = &c
	return nil
}

func (r *RolRepo) GetByID(_ context.Context, id string) (*entity.Rol, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rol, ok := r.s.roles[id]
	if !ok {
		return nil, nil
	}
	c := *rol
	return &c, nil
}

func (r *RolRepo) GetByNombre(_ context.Context, nombre string) (*entity.Rol, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rol := range r.s.roles {
		if rol.Nombre == nombre {
			c := *rol
			return &c, nil
		}
	}
	return nil, nil
}

func (r *RolRepo) List(_ context.Context) ([]*entity.Rol, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Rol
	for _, rol := range r.s.roles {
		c := *rol
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NivelAcceso > out[j].NivelAcceso })
	return out, nil
}

// ── Rubros y subrubros ───────────────────────────────────────────────────

type RubroRepo struct{ s *Store }

// NewRubroRepo implementa repository.RubroRepository.
func NewRubroRepo(s *Store) *RubroRepo { return &RubroRepo{s: s} }

func (r *RubroRepo) Crear(_ context.Context, rb *entity.Rubro) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, otro := range r.s.rubros {
		if otro.Nombre == rb.Nombre && otro.Tipo == rb.Tipo {
			return fmt.Errorf("%w: rubro (%s, %s)", domain.ErrDuplicado, rb.Nombre, rb.Tipo)
		}
	}
	c := *rb
	r.s.rubros[rb.ID] = &c
	return nil
}

func (r *RubroRepo) GetByID(_ context.Context, id string) (*entity.Rubro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rb, ok := r.s.rubros[id]
	if !ok {
		return nil, nil
	}
	c := *rb
	return &c, nil
}

func (r *RubroRepo) GetPorNombreTipo(_ context.Context, nombre, tipo string) (*entity.Rubro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rb := range r.s.rubros {
		if rb.Nombre == nombre && rb.Tipo == tipo {
			c := *rb
			return &c, nil
		}
	}
	return nil, nil
}

func (r *RubroRepo) List(_ context.Context, soloActivos bool) ([]*entity.Rubro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Rubro
	for _, rb := range r.s.rubros {
		if soloActivos && !rb.Activo {
			continue
		}
		c := *rb
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orden != out[j].Orden {
			return out[i].Orden < out[j].Orden
		}
		return strings.Compare(out[i].Nombre, out[j].Nombre) < 0
	})
	return out, nil
}

func (r *RubroRepo) Update(_ context.Context, rb *entity.Rubro) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rubros[rb.ID]; !ok {
		return fmt.Errorf("%w: rubro %s", domain.ErrNoEncontrado, rb.ID)
	}
	c := *rb
	r.s.rubros[rb.ID] = &c
	return nil
}

func (r *RubroRepo) Eliminar(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.rubros, id)
	return nil
}

type SubRubroRepo struct{ s *Store }

// NewSubRubroRepo implementa repository.SubRubroRepository.
func NewSubRubroRepo(s *Store) *SubRubroRepo { return &SubRubroRepo{s: s} }

func (r *SubRubroRepo) Crear(_ context.Context, sr *entity.SubRubro) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, otro := range r.s.subrubros {
		if otro.RubroID == sr.RubroID && otro.Nombre == sr.Nombre {
			return fmt.Errorf("%w: subrubro (%s, %s)", domain.ErrDuplicado, sr.RubroID, sr.Nombre)
		}
	}
	c := *sr
	r.s.subrubros[sr.ID] = &c
	return nil
}

func (r *SubRubroRepo) GetByID(_ context.Context, id string) (*entity.SubRubro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sr, ok := r.s.subrubros[id]
	if !ok {
		return nil, nil
	}
	c := *sr
	return &c, nil
}

func (r *SubRubroRepo) ListPorRubro(_ context.Context, rubroID string, soloActivos bool) ([]*entity.SubRubro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SubRubro
	for _, sr := range r.s.subrubros {
		if sr.RubroID != rubroID {
			continue
		}
		if soloActivos && !sr.Activo {
			continue
		}
		c := *sr
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orden != out[j].Orden {
			return out[i].Orden < out[j].Orden
		}
		return strings.Compare(out[i].Nombre, out[j].Nombre) < 0
	})
	return out, nil
}

func (r *SubRubroRepo) Update(_ context.Context, sr *entity.SubRubro) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subrubros[sr.ID]; !ok {
		return fmt.Errorf("%w: subrubro %s", domain.ErrNoEncontrado, sr.ID)
	}
	c := *sr
	r.s.subrubros[sr.ID] = &c
	return nil
}

func (r *SubRubroRepo) Eliminar(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.subrubros, id)
	return nil
}

func (r *SubRubroRepo) EliminarPorRubro(_ context.Context, rubroID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sr := range r.s.subrubros {
		if sr.RubroID == rubroID {
			delete(r.s.subrubros, id)
		}
	}
	return nil
}

// ── Empresas ─────────────────────────────────────────────────────────────

type EmpresaRepo struct{ s *Store }

// NewEmpresaRepo implementa repository.EmpresaRepository.
func NewEmpresaRepo(s *Store) *EmpresaRepo { return &EmpresaRepo{s: s} }

func (r *EmpresaRepo) Crear(_ context.Context, e *entity.Empresa) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, otra := range r.s.empresas {
		if otra.CuitCuil == e.CuitCuil {
			return fmt.Errorf("%w: CUIT %s", domain.ErrConflicto, e.CuitCuil)
		}
	}
	c := *e
	r.s.empresas[e.ID] = &c
	return nil
}

func (r *EmpresaRepo) GetByID(_ context.Context, id string) (*entity.Empresa, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.empresas[id]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (r *EmpresaRepo) GetByCuit(_ context.Context, cuit string) (*entity.Empresa, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.empresas {
		if e.CuitCuil == cuit {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *EmpresaRepo) GetByUsuarioID(_ context.Context, usuarioID string) (*entity.Empresa, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.empresas {
		if e.UsuarioID == usuarioID {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *EmpresaRepo) List(_ context.Context, f repository.FiltroEmpresas, limit, offset int) ([]*entity.Empresa, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Empresa
	for _, e := range r.s.empresas {
		if f.Tipo != "" && e.TipoEmpresaValor != f.Tipo {
			continue
		}
		if f.RubroID != "" && e.RubroID != f.RubroID {
			continue
		}
		if f.DepartamentoID != "" && e.DepartamentoID != f.DepartamentoID {
			continue
		}
		if f.SoloExportan && e.Exporta != entity.ExportaSi {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].RazonSocial, out[j].RazonSocial) < 0 })
	return paginar(out, limit, offset), nil
}

func (r *EmpresaRepo) Update(_ context.Context, e *entity.Empresa) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.empresas[e.ID]; !ok {
		return fmt.Errorf("%w: empresa %s", domain.ErrNoEncontrado, e.ID)
	}
	c := *e
	r.s.empresas[e.ID] = &c
	return nil
}

func (r *EmpresaRepo) Eliminar(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.empresas, id)
	return nil
}

func (r *EmpresaRepo) CountPorTipo(_ context.Context) (map[string]int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	porTipo := map[string]int64{}
	var total int64
	for _, e := range r.s.empresas {
		porTipo[e.TipoEmpresaValor]++
		total++
	}
	return porTipo, total, nil
}

func (r *EmpresaRepo) CountPorRubro(_ context.Context, rubroID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.empresas {
		if e.RubroID == rubroID {
			n++
		}
	}
	return n, nil
}

func (r *EmpresaRepo) CountPorDepartamento(_ context.Context) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]int64{}
	for _, e := range r.s.empresas {
		out[e.DepartamentoID]++
	}
	return out, nil
}

func (r *EmpresaRepo) ReasignarRubro(_ context.Context, rubroViejoID, rubroNuevoID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.empresas {
		if e.RubroID == rubroViejoID {
			e.RubroID = rubroNuevoID
			n++
		}
	}
	return n, nil
}

// ── Auditoría ────────────────────────────────────────────────────────────

type AuditoriaRepo struct{ s *Store }

// NewAuditoriaRepo implementa repository.AuditoriaRepository.
func NewAuditoriaRepo(s *Store) *AuditoriaRepo { return &AuditoriaRepo{s: s} }

func (r *AuditoriaRepo) Crear(_ context.Context, a *entity.AuditoriaLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *a
	r.s.auditoria = append(r.s.auditoria, &c)
	return nil
}

func (r *AuditoriaRepo) List(_ context.Context, f repository.FiltroAuditoria, limit, offset int) ([]*entity.AuditoriaLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AuditoriaLog
	for _, a := range r.s.auditoria {
		if f.Accion != "" && a.Accion != f.Accion {
			continue
		}
		if f.Modelo != "" && a.Modelo != f.Modelo {
			continue
		}
		if f.UsuarioID != "" && (a.UsuarioID == nil || *a.UsuarioID != f.UsuarioID) {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return paginar(out, limit, offset), nil
}

// ── Geografía ────────────────────────────────────────────────────────────

type GeoRepo struct{ s *Store }

// NewGeoRepo implementa repository.GeoRepository.
func NewGeoRepo(s *Store) *GeoRepo { return &GeoRepo{s: s} }

func (r *GeoRepo) UpsertProvincia(_ context.Context, p *entity.Provincia) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	r.s.provincias[p.ID] = &c
	return nil
}

func (r *GeoRepo) UpsertDepartamento(_ context.Context, d *entity.Departamento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *d
	r.s.departamentos[d.ID] = &c
	return nil
}

func (r *GeoRepo) UpsertMunicipio(_ context.Context, m *entity.Municipio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	r.s.municipios[m.ID] = &c
	return nil
}

// UpsertLocalidad preserva un municipio ya asignado cuando la entrada llega
// sin municipio, igual que el upsert SQL.
func (r *GeoRepo) UpsertLocalidad(_ context.Context, l *entity.Localidad) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *l
	if c.MunicipioID == nil {
		if previa, ok := r.s.localidades[l.ID]; ok {
			c.MunicipioID = previa.MunicipioID
		}
	}
	r.s.localidades[l.ID] = &c
	return nil
}

func (r *GeoRepo) GetProvincia(_ context.Context, id string) (*entity.Provincia, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.provincias[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *GeoRepo) GetDepartamento(_ context.Context, id string) (*entity.Departamento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.departamentos[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r *GeoRepo) GetMunicipio(_ context.Context, id string) (*entity.Municipio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.municipios[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *GeoRepo) GetLocalidad(_ context.Context, id string) (*entity.Localidad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.localidades[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r *GeoRepo) ListMunicipios(_ context.Context, provinciaID string) ([]*entity.Municipio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Municipio
	for _, m := range r.s.municipios {
		if m.ProvinciaID != provinciaID {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Nombre, out[j].Nombre) < 0 })
	return out, nil
}

func (r *GeoRepo) ListLocalidades(_ context.Context, provinciaID string) ([]*entity.Localidad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Localidad
	for _, l := range r.s.localidades {
		if l.ProvinciaID != provinciaID {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Nombre, out[j].Nombre) < 0 })
	return out, nil
}

func (r *GeoRepo) ActualizarMunicipioDeLocalidad(_ context.Context, localidadID, municipioID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.localidades[localidadID]
	if !ok {
		return fmt.Errorf("%w: localidad %s", domain.ErrNoEncontrado, localidadID)
	}
	id := municipioID
	l.MunicipioID = &id
	return nil
}

// ── TxRunner y notificador ───────────────────────────────────────────────

// TxRunner satisface los tres contratos transaccionales de la aplicación.
// Ejecuta la función de inmediato con repositorios del mismo Store; no hay
// rollback, así que una prueba que necesite atomicidad real no va acá.
type TxRunner struct{ s *Store }

// NewTxRunner crea el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (t *TxRunner) Run(ctx context.Context, fn func(
	solicitudRepo repository.SolicitudRepository,
	usuarioRepo repository.UsuarioRepository,
	empresaRepo repository.EmpresaRepository,
	auditRepo repository.AuditoriaRepository,
) error) error {
	return fn(NewSolicitudRepo(t.s), NewUsuarioRepo(t.s), NewEmpresaRepo(t.s), NewAuditoriaRepo(t.s))
}

func (t *TxRunner) RunCatalogo(ctx context.Context, fn func(
	rubroRepo repository.RubroRepository,
	subRubroRepo repository.SubRubroRepository,
	empresaRepo repository.EmpresaRepository,
	auditRepo repository.AuditoriaRepository,
) error) error {
	return fn(NewRubroRepo(t.s), NewSubRubroRepo(t.s), NewEmpresaRepo(t.s), NewAuditoriaRepo(t.s))
}

func (t *TxRunner) RunPadron(ctx context.Context, fn func(
	usuarioRepo repository.UsuarioRepository,
	empresaRepo repository.EmpresaRepository,
	auditRepo repository.AuditoriaRepository,
) error) error {
	return fn(NewUsuarioRepo(t.s), NewEmpresaRepo(t.s), NewAuditoriaRepo(t.s))
}

// Envio un correo capturado por el notificador de prueba.
type Envio struct {
	Plantilla    string
	Destinatario string
	Variables    map[string]string
}

// Notificador captura los envíos en vez de mandarlos. Con Fallar armado,
// cada Enviar devuelve ese error (además de registrar el intento).
type Notificador struct {
	mu     sync.Mutex
	envios []Envio
	Fallar error
}

// NewNotificador crea el notificador de captura.
func NewNotificador() *Notificador { return &Notificador{} }

func (n *Notificador) Enviar(_ context.Context, plantilla, destinatario string, variables map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.envios = append(n.envios, Envio{Plantilla: plantilla, Destinatario: destinatario, Variables: variables})
	return n.Fallar
}

// Envios devuelve los correos capturados en orden.
func (n *Notificador) Envios() []Envio {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Envio, len(n.envios))
	copy(out, n.envios)
	return out
}

func paginar[T any](in []*T, limit, offset int) []*T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
