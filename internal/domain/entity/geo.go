package entity

// Jerarquía geográfica de referencia: provincia → departamento → municipio → localidad.
// Se puebla desde el importador georef (apis.datos.gob.ar); el núcleo solo la lee.

// Provincia según el registro oficial (ID georef de dos dígitos).
type Provincia struct {
	ID     string
	Nombre string
}

// Departamento pertenece a una provincia.
type Departamento struct {
	ID          string
	ProvinciaID string
	Nombre      string
}

// Municipio pertenece a un departamento de una provincia.
type Municipio struct {
	ID             string
	ProvinciaID    string
	DepartamentoID string
	Nombre         string
}

// Localidad puede carecer de municipio explícito: es un estado legal.
// La rutina de reparación asigna el municipio cuando hay coincidencia de
// nombre dentro del mismo departamento, nunca inventa uno.
type Localidad struct {
	ID             string
	ProvinciaID    string
	DepartamentoID string
	MunicipioID    *string
	Nombre         string
}
