package source

import (
	"github.com/ecastellanos/relia/internal/common"
)

// Canonical column names of the reconciled table.
const (
	ColNotificationID   = "notification_id"
	ColEquipmentID      = "equipment_id"
	ColProvider         = "provider"
	ColServiceType      = "service_type"
	ColStoppageHours    = "stoppage_hours"
	ColCostTotal        = "cost_total"
	ColStatus           = "status"
	ColDescription      = "description"
	ColTechnicalObject  = "technical_object"
	ColScheduleLabel    = "schedule_label"
	ColNotificationDate = "notification_date"
	ColWarrantyEnd      = "warranty_end"
	ColDetailText       = "detail_text"
)

// System identifies one of the five source extracts.
type System string

// The five source systems.
const (
	SystemIW29   System = "IW29"   // notifications, equipment, stoppage
	SystemIW39   System = "IW39"   // order cost and executing vendor
	SystemIH08   System = "IH08"   // equipment master and warranty
	SystemIW65   System = "IW65"   // notification detail text
	SystemZPM015 System = "ZPM015" // equipment to service-type classification
)

// Schema is the declarative mapping from a system's free-text headers to
// canonical column names. Headers are matched after NormalizeHeader; headers
// with no alias keep their normalized form rather than being dropped.
type Schema struct {
	System   System
	Aliases  map[string]string
	Required []string
}

// Schemas holds the fixed per-system mapping. The alias keys are the
// normalized forms of the headers each extract is known to ship with, in
// both their Spanish SAP spelling and plain English.
var Schemas = map[System]Schema{
	SystemIW29: {
		System: SystemIW29,
		Aliases: map[string]string{
			"aviso":                          ColNotificationID,
			"notificacion":                   ColNotificationID,
			"notification":                   ColNotificationID,
			"equipo":                         ColEquipmentID,
			"equipment":                      ColEquipmentID,
			"denominacion_de_objeto_tecnico": ColTechnicalObject,
			"objeto_tecnico":                 ColTechnicalObject,
			"texto":                          ColDescription,
			"descripcion":                    ColDescription,
			"description":                    ColDescription,
			"duracion_de_parada":             ColStoppageHours,
			"duracion_parada":                ColStoppageHours,
			"breakdown_duration":             ColStoppageHours,
			"status_del_sistema":             ColStatus,
			"status_sistema":                 ColStatus,
			"system_status":                  ColStatus,
			"fecha_de_aviso":                 ColNotificationDate,
			"fecha_aviso":                    ColNotificationDate,
			"notification_date":              ColNotificationDate,
		},
		Required: []string{
			ColNotificationID, ColEquipmentID, ColDescription,
			ColStoppageHours, ColStatus, ColTechnicalObject,
		},
	},
	SystemIW39: {
		System: SystemIW39,
		Aliases: map[string]string{
			"aviso":               ColNotificationID,
			"notification":        ColNotificationID,
			"costes_totreales":    ColCostTotal,
			"costes_totales":      ColCostTotal,
			"costes_tot_reales":   ColCostTotal,
			"total_actual_costs":  ColCostTotal,
			"proveedor":           ColProvider,
			"nombre_de_proveedor": ColProvider,
			"contratista":         ColProvider,
			"vendor":              ColProvider,
		},
		Required: []string{ColNotificationID, ColCostTotal, ColProvider},
	},
	SystemIH08: {
		System: SystemIH08,
		Aliases: map[string]string{
			"equipo":                         ColEquipmentID,
			"equipment":                      ColEquipmentID,
			"denominacion_de_objeto_tecnico": ColTechnicalObject,
			"objeto_tecnico":                 ColTechnicalObject,
			"horario":                        ColScheduleLabel,
			"texto_horario":                  ColScheduleLabel,
			"schedule":                       ColScheduleLabel,
			"fin_garantia":                   ColWarrantyEnd,
			"fin_de_garantia":                ColWarrantyEnd,
			"warranty_end":                   ColWarrantyEnd,
		},
		Required: []string{ColEquipmentID, ColScheduleLabel},
	},
	SystemIW65: {
		System: SystemIW65,
		Aliases: map[string]string{
			"aviso":             ColNotificationID,
			"notification":      ColNotificationID,
			"texto":             ColDetailText,
			"texto_de_posicion": ColDetailText,
			"item_text":         ColDetailText,
		},
		Required: []string{ColNotificationID},
	},
	SystemZPM015: {
		System: SystemZPM015,
		Aliases: map[string]string{
			"equipo":            ColEquipmentID,
			"equipment":         ColEquipmentID,
			"tipo_de_servicio":  ColServiceType,
			"clase_de_servicio": ColServiceType,
			"service_type":      ColServiceType,
		},
		Required: []string{ColEquipmentID, ColServiceType},
	},
}

// Apply rewrites the table's columns to canonical names and materializes any
// required column the extract failed to ship. The returned error is
// warning-grade: the table stays usable, with the absent fields empty.
func (s Schema) Apply(t *Table) *common.MissingColumnsError {
	cols := make([]string, 0, len(t.Columns))
	rename := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		normalized := NormalizeHeader(c)
		canonical, ok := s.Aliases[normalized]
		if !ok {
			canonical = normalized
		}
		rename[c] = canonical
		cols = append(cols, canonical)
	}

	for i, row := range t.Rows {
		mapped := make(Row, len(row))
		for c, v := range row {
			name, ok := rename[c]
			if !ok {
				name = NormalizeHeader(c)
			}
			mapped[name] = v
		}
		t.Rows[i] = mapped
	}
	t.Columns = cols

	var missing []string
	for _, req := range s.Required {
		if !t.HasColumn(req) {
			missing = append(missing, req)
			t.AddColumn(req)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &common.MissingColumnsError{Source: string(s.System), Columns: missing}
}
