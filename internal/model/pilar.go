package model

import (
	"sort"
	"time"
)

// Pilar is one lesson unit in the curriculum. Pilares form a strictly linear
// chain: pilar 0 is never locked, pilar N unlocks when pilar N-1 completes.
type Pilar struct {
	ID         int    `json:"id"`
	Titulo     string `json:"titulo"`
	Subtitulo  string `json:"subtitulo"`
	Concepto   string `json:"concepto"`
	Accion     string `json:"accion"`
	Ejercicio  string `json:"ejercicio"`
	Completado bool   `json:"completado"`
	Bloqueado  bool   `json:"bloqueado"`
}

// PilarDefinition is an optional backend-supplied lesson definition. When any
// definitions exist they replace the static defaults entirely.
type PilarDefinition struct {
	ID                int    `db:"id" json:"id"`
	Titulo            string `db:"titulo" json:"titulo"`
	Subtitulo         string `db:"subtitulo" json:"subtitulo"`
	Concepto          string `db:"concepto" json:"concepto"`
	Accion            string `db:"accion" json:"accion"`
	Ejercicio         string `db:"ejercicio" json:"ejercicio"`
	IsLockedByDefault bool   `db:"is_locked_by_default" json:"is_locked_by_default"`
}

// PilarProgress is the per-user completion record, upserted by (user_id, pilar_id).
type PilarProgress struct {
	UserID    string    `db:"user_id" json:"user_id"`
	PilarID   int       `db:"pilar_id" json:"pilar_id"`
	Completed bool      `db:"completed" json:"completed"`
	Unlocked  bool      `db:"unlocked" json:"unlocked"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

var defaultPilares = []Pilar{
	{ID: 0, Titulo: "EL DESPERTAR", Subtitulo: "Protocolo de Consciencia", Concepto: "Tu vida es una repetición. Romper el ciclo requiere dolor.", Accion: "Análisis de Patrones", Ejercicio: "El Muro de la Verdad", Completado: false, Bloqueado: false},
	{ID: 1, Titulo: "TRAMPA MENTAL", Subtitulo: "Procrastinación Culta", Concepto: "Estudiar es un escondite. La teoría sin práctica es veneno.", Accion: "Dieta de Información", Ejercicio: "Confesión del Espejo", Completado: false, Bloqueado: true},
	{ID: 2, Titulo: "VERDAD DEL MIEDO", Subtitulo: "Riesgo Emocional", Concepto: "Decidir con miedo es la única forma de crecer.", Accion: "Regla 30 días.", Ejercicio: "Botón del Pánico Inverso", Completado: false, Bloqueado: true},
	{ID: 3, Titulo: "VENDER ES AMAR", Subtitulo: "Tu Valor Real", Concepto: "No vender es egoísmo puro.", Accion: "Lanzamiento Flash.", Ejercicio: "Generador de Oferta Flash", Completado: false, Bloqueado: true},
	{ID: 4, Titulo: "MOTOR DE ACCIÓN", Subtitulo: "Sistemas sobre Emociones", Concepto: "El impulso vence a la motivación.", Accion: "Acción Mínima Diaria.", Ejercicio: "Streak Tracker", Completado: false, Bloqueado: true},
	{ID: 5, Titulo: "CÍRCULO DE FUEGO", Subtitulo: "Gestión del Entorno", Concepto: "Tu fuerza de voluntad no puede contra tu entorno.", Accion: "Auditoría Social", Ejercicio: "Lista de Despido", Completado: false, Bloqueado: true},
	{ID: 6, Titulo: "EL FRACASO ES DATO", Subtitulo: "Resiliencia Kaizen", Concepto: "Quítale la emoción al error. Solo es información.", Accion: "Re-encuadre Táctico", Ejercicio: "Post-Mortem de Éxito", Completado: false, Bloqueado: true},
}

// DefaultPilares returns a fresh copy of the static curriculum seeded at
// session reset.
func DefaultPilares() []Pilar {
	out := make([]Pilar, len(defaultPilares))
	copy(out, defaultPilares)
	return out
}

// MergePilares reconciles the static defaults with backend data. Dynamic
// definitions, when present, are authoritative and replace the defaults;
// progress records override completion and locking in either case. The result
// is sorted by id.
func MergePilares(defaults []Pilar, defs []PilarDefinition, progress []PilarProgress) []Pilar {
	byID := make(map[int]PilarProgress, len(progress))
	for _, pr := range progress {
		byID[pr.PilarID] = pr
	}

	if len(defs) > 0 {
		merged := make([]Pilar, 0, len(defs))
		for _, d := range defs {
			p := Pilar{
				ID:        d.ID,
				Titulo:    d.Titulo,
				Subtitulo: d.Subtitulo,
				Concepto:  d.Concepto,
				Accion:    d.Accion,
				Ejercicio: d.Ejercicio,
				Bloqueado: d.IsLockedByDefault,
			}
			if pr, ok := byID[d.ID]; ok {
				p.Completado = pr.Completed
				p.Bloqueado = !pr.Unlocked
			}
			merged = append(merged, p)
		}
		sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
		return merged
	}

	merged := make([]Pilar, len(defaults))
	copy(merged, defaults)
	for i := range merged {
		if pr, ok := byID[merged[i].ID]; ok {
			merged[i].Completado = pr.Completed
			merged[i].Bloqueado = !pr.Unlocked
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged
}
