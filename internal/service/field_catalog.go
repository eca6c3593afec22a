package service

import (
	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	"github.com/dmorales-dev/fleet-panel-api/pkg/export"
)

// FieldCatalog is the authoritative map from report kind to the ordered set
// of selectable fields. The Expr column is the only place a field name is
// allowed to reach SQL, which keeps the selection whitelist closed.
type FieldCatalog struct {
	fields map[models.ReportKind][]models.FieldDescriptor
}

// NewFieldCatalog builds the catalog with display labels resolved once.
func NewFieldCatalog() *FieldCatalog {
	c := &FieldCatalog{fields: map[models.ReportKind][]models.FieldDescriptor{
		models.ReportKindVehicles: {
			{Key: "placa", Type: models.FieldTypeString, Expr: `v.placa`},
			{Key: "marca", Type: models.FieldTypeString, Expr: `v.marca`},
			{Key: "modelo", Type: models.FieldTypeString, Expr: `v.modelo`},
			{Key: "anio", Type: models.FieldTypeNumber, Expr: `v.anio`},
			{Key: "color", Type: models.FieldTypeString, Expr: `v.color`},
			{Key: "categoria", Type: models.FieldTypeString, Expr: `v.categoria`},
			{Key: "kilometraje", Type: models.FieldTypeNumber, Expr: `v.kilometraje`},
			{Key: "fechaSoat", Type: models.FieldTypeDate, Expr: `v.fecha_soat`},
			{Key: "fechaTecnomecanica", Type: models.FieldTypeDate, Expr: `v.fecha_tecnomecanica`},
			{Key: "estado", Type: models.FieldTypeString, Expr: `v.estado`},
		},
		models.ReportKindUsers: {
			{Key: "nombre", Type: models.FieldTypeString, Expr: `u.nombre`},
			{Key: "apellido", Type: models.FieldTypeString, Expr: `u.apellido`},
			{Key: "correo", Type: models.FieldTypeString, Expr: `u.correo`},
			{Key: "telefono", Type: models.FieldTypeString, Expr: `u.telefono`},
			{Key: "rol", Type: models.FieldTypeString, Expr: `u.rol`},
			{Key: "area", Type: models.FieldTypeString, Expr: `u.area`},
			{Key: "fechaCreacion", Type: models.FieldTypeDate, Expr: `u.fecha_creacion`},
		},
		models.ReportKindMaintenances: {
			{Key: "placa", Type: models.FieldTypeString, Expr: `v.placa`},
			{Key: "tipoMantenimiento", Type: models.FieldTypeString, Expr: `m.tipo_mantenimiento`},
			{Key: "descripcion", Type: models.FieldTypeString, Expr: `m.descripcion`},
			{Key: "costo", Type: models.FieldTypeCurrency, Expr: `m.costo`},
			{Key: "fecha", Type: models.FieldTypeDate, Expr: `m.fecha`},
			{Key: "proveedor", Type: models.FieldTypeString, Expr: `m.proveedor`},
			{Key: "kilometraje", Type: models.FieldTypeNumber, Expr: `m.kilometraje`},
		},
		models.ReportKindVehiclesMaintenance: {
			{Key: "placa", Type: models.FieldTypeString, Expr: `v.placa`},
			{Key: "marca", Type: models.FieldTypeString, Expr: `v.marca`},
			{Key: "modelo", Type: models.FieldTypeString, Expr: `v.modelo`},
			{Key: "totalMantenimientos", Type: models.FieldTypeNumber, Expr: `COUNT(m.id)`},
			{Key: "costoTotal", Type: models.FieldTypeCurrency, Expr: `COALESCE(SUM(m.costo), 0)`},
			{Key: "ultimoMantenimiento", Type: models.FieldTypeDate, Expr: `MAX(m.fecha)`},
		},
		models.ReportKindDriversVehicles: {
			{Key: "nombre", Type: models.FieldTypeString, Expr: `d.nombre_completo`},
			{Key: "cedula", Type: models.FieldTypeString, Expr: `d.cedula`},
			{Key: "telefono", Type: models.FieldTypeString, Expr: `d.telefono`},
			{Key: "licencia", Type: models.FieldTypeString, Expr: `COALESCE(e.licencia, 'NO')`},
			{Key: "accidentes", Type: models.FieldTypeString, Expr: `COALESCE(e.accidente_5_anios, 'NO')`},
			{Key: "vehiculosAsignados", Type: models.FieldTypeNumber, Expr: `COUNT(a.vehiculo_id)`},
		},
	}}
	for kind, descriptors := range c.fields {
		for i := range descriptors {
			descriptors[i].Label = export.FormatLabel(descriptors[i].Key)
		}
		c.fields[kind] = descriptors
	}
	return c
}

// FieldsFor returns the ordered descriptors for a kind. Unknown kinds yield
// an empty slice rather than an error; the binding layer rejects them first.
func (c *FieldCatalog) FieldsFor(kind models.ReportKind) []models.FieldDescriptor {
	descriptors := c.fields[kind]
	out := make([]models.FieldDescriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Resolve narrows the catalog to the requested keys, preserving catalog
// order. Unknown keys are dropped; an empty request selects everything.
func (c *FieldCatalog) Resolve(kind models.ReportKind, selected []string) []models.FieldDescriptor {
	descriptors := c.FieldsFor(kind)
	if len(selected) == 0 {
		return descriptors
	}
	requested := make(map[string]struct{}, len(selected))
	for _, key := range selected {
		requested[key] = struct{}{}
	}
	out := make([]models.FieldDescriptor, 0, len(selected))
	for _, d := range descriptors {
		if _, ok := requested[d.Key]; ok {
			out = append(out, d)
		}
	}
	return out
}
