package domain

import "time"

// Nombres neutrales de los atributos mutables del registro. Cada adapter
// los traduce a su propia sintaxis (campo BSON, columna SQL, campo JSON).
const (
	FieldTitle      = "title"
	FieldDetail     = "detail"
	FieldDueAt      = "dueAt"
	FieldIsComplete = "isComplete"
	FieldUpdatedAt  = "updatedAt"
)

// UpdatePatch describe una actualización parcial de forma declarativa:
// qué atributos se escriben y cuáles se eliminan del registro. Es el
// descriptor neutral que consume cada adapter; ninguno interpreta el
// input original por su cuenta.
type UpdatePatch struct {
	Set    map[string]any
	Remove []string
}

// BuildUpdatePatch compila un UpdateInput en su patch. La construcción
// es determinista: title, isComplete y updatedAt se escriben siempre;
// cada opcional o bien se escribe (valor presente) o bien se elimina
// (omitido), incluso si el registro lo tenía antes. ID y createdAt no
// aparecen nunca: son inmutables.
func BuildUpdatePatch(in UpdateInput, now time.Time) UpdatePatch {
	p := UpdatePatch{
		Set: map[string]any{
			FieldTitle:      in.Title,
			FieldIsComplete: in.IsComplete,
			FieldUpdatedAt:  now,
		},
	}

	if in.Detail != nil {
		p.Set[FieldDetail] = *in.Detail
	} else {
		p.Remove = append(p.Remove, FieldDetail)
	}

	if in.DueAt != nil {
		p.Set[FieldDueAt] = *in.DueAt
	} else {
		p.Remove = append(p.Remove, FieldDueAt)
	}

	return p
}

// Apply vuelca el patch sobre un registro ya leído. Lo usan los stores
// que no saben aplicar set/remove en el servidor (p.ej. el KV de Redis,
// que reescribe el valor completo) y el fake en memoria de los tests.
func (p UpdatePatch) Apply(r *TaskRecord) {
	if v, ok := p.Set[FieldTitle]; ok {
		r.Title = v.(string)
	}
	if v, ok := p.Set[FieldIsComplete]; ok {
		r.IsComplete = v.(bool)
	}
	if v, ok := p.Set[FieldUpdatedAt]; ok {
		r.UpdatedAt = v.(time.Time)
	}
	if v, ok := p.Set[FieldDetail]; ok {
		d := v.(string)
		r.Detail = &d
	}
	if v, ok := p.Set[FieldDueAt]; ok {
		d := v.(time.Time)
		r.DueAt = &d
	}
	for _, f := range p.Remove {
		switch f {
		case FieldDetail:
			r.Detail = nil
		case FieldDueAt:
			r.DueAt = nil
		}
	}
}
