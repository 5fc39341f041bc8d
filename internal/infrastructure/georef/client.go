// Package georef consume la API pública de referencia geográfica
// (apis.datos.gob.ar/georef/api) para poblar provincias, departamentos,
// municipios y localidades.
package georef

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/catamarca-exporta/padron-api/internal/domain/entity"
	"github.com/catamarca-exporta/padron-api/pkg/config"
	"github.com/catamarca-exporta/padron-api/pkg/logger"
)

// Client pagina los listados de georef respetando el rate limit público.
type Client struct {
	baseURL string
	pagina  int
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewClient construye el cliente georef.
func NewClient(cfg config.GeorefConfig, log *logger.Logger) *Client {
	pagina := cfg.TamanoPagina
	if pagina <= 0 || pagina > 1000 {
		pagina = 1000
	}
	rps := cfg.SolicitudesSeg
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		baseURL: cfg.BaseURL,
		pagina:  pagina,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		log:     log,
	}
}

// Formas del JSON de georef. Cada listado trae total/cantidad/inicio para paginar.
type georefMunicipio struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Departamento struct {
		ID string `json:"id"`
	} `json:"departamento"`
	Provincia struct {
		ID string `json:"id"`
	} `json:"provincia"`
}

type georefAsentamiento struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Departamento struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
	} `json:"departamento"`
	Municipio struct {
		ID *string `json:"id"` // null cuando el asentamiento no pertenece a un municipio
	} `json:"municipio"`
	Provincia struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
	} `json:"provincia"`
}

type paginaMunicipios struct {
	Municipios []georefMunicipio `json:"municipios"`
	Total      int               `json:"total"`
	Cantidad   int               `json:"cantidad"`
	Inicio     int               `json:"inicio"`
}

type paginaAsentamientos struct {
	Asentamientos []georefAsentamiento `json:"asentamientos"`
	Total         int                  `json:"total"`
	Cantidad      int                  `json:"cantidad"`
	Inicio        int                  `json:"inicio"`
}

// Municipios trae todos los municipios de la provincia.
func (c *Client) Municipios(ctx context.Context, provinciaID string) ([]*entity.Municipio, error) {
	var result []*entity.Municipio
	for inicio := 0; ; {
		var pag paginaMunicipios
		if err := c.get(ctx, "/municipios", provinciaID, inicio, &pag); err != nil {
			return nil, err
		}
		for _, m := range pag.Municipios {
			result = append(result, &entity.Municipio{
				ID:             m.ID,
				ProvinciaID:    m.Provincia.ID,
				DepartamentoID: m.Departamento.ID,
				Nombre:         m.Nombre,
			})
		}
		inicio += pag.Cantidad
		if pag.Cantidad == 0 || inicio >= pag.Total {
			break
		}
	}
	c.log.Info().Str("provincia", provinciaID).Int("municipios", len(result)).Msg("georef: municipios descargados")
	return result, nil
}

// Asentamientos trae todas las localidades de la provincia, junto con los
// departamentos y la provincia que referencian (vienen embebidos en cada fila).
func (c *Client) Asentamientos(ctx context.Context, provinciaID string) (*entity.Provincia, []*entity.Departamento, []*entity.Localidad, error) {
	var provincia *entity.Provincia
	departamentos := map[string]*entity.Departamento{}
	var localidades []*entity.Localidad

	for inicio := 0; ; {
		var pag paginaAsentamientos
		if err := c.get(ctx, "/asentamientos", provinciaID, inicio, &pag); err != nil {
			return nil, nil, nil, err
		}
		for _, a := range pag.Asentamientos {
			if provincia == nil {
				provincia = &entity.Provincia{ID: a.Provincia.ID, Nombre: a.Provincia.Nombre}
			}
			if _, ok := departamentos[a.Departamento.ID]; !ok && a.Departamento.ID != "" {
				departamentos[a.Departamento.ID] = &entity.Departamento{
					ID:          a.Departamento.ID,
					ProvinciaID: a.Provincia.ID,
					Nombre:      a.Departamento.Nombre,
				}
			}
			localidades = append(localidades, &entity.Localidad{
				ID:             a.ID,
				ProvinciaID:    a.Provincia.ID,
				DepartamentoID: a.Departamento.ID,
				MunicipioID:    a.Municipio.ID,
				Nombre:         a.Nombre,
			})
		}
		inicio += pag.Cantidad
		if pag.Cantidad == 0 || inicio >= pag.Total {
			break
		}
	}

	deps := make([]*entity.Departamento, 0, len(departamentos))
	for _, d := range departamentos {
		deps = append(deps, d)
	}
	c.log.Info().Str("provincia", provinciaID).
		Int("departamentos", len(deps)).
		Int("localidades", len(localidades)).
		Msg("georef: asentamientos descargados")
	return provincia, deps, localidades, nil
}

// get hace una llamada paginada, esperando el turno del rate limiter.
func (c *Client) get(ctx context.Context, recurso, provinciaID string, inicio int, destino any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	q := url.Values{}
	q.Set("provincia", provinciaID)
	q.Set("max", strconv.Itoa(c.pagina))
	q.Set("inicio", strconv.Itoa(inicio))
	q.Set("campos", "completo")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+recurso+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("georef: armar request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("georef: %s: %w", recurso, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("georef: %s respondió %d", recurso, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(destino); err != nil {
		return fmt.Errorf("georef: decodificar %s: %w", recurso, err)
	}
	return nil
}
