// Package query implementa la paginación por páginas y la ordenación dinámica
// sobre consultas perezosas. No ejecuta SQL ni gestiona conexiones: los
// adaptadores (sqlquery, mongoquery, redisquery) evalúan la consulta.
package query

import "context"

// ---------- Consulta perezosa ----------

// Queryable describe una consulta inmutable que sólo se evalúa en Count y List.
// Cada operación de composición devuelve una consulta nueva.
type Queryable[T any] interface {
	// Count evalúa la consulta y devuelve el número de elementos sin materializarlos.
	Count(ctx context.Context) (int, error)

	// List materializa los elementos en orden.
	List(ctx context.Context) ([]T, error)

	// OrderBy reemplaza la ordenación por una única clave.
	OrderBy(key SortKey[T], desc bool) Queryable[T]

	// Skip descarta los primeros n elementos. n <= 0 no descarta nada.
	Skip(n int) Queryable[T]

	// Take limita la consulta a n elementos. n < 0 equivale a 0.
	Take(n int) Queryable[T]
}

// Sort indica columna y dirección de una ordenación ya resuelta.
type Sort struct {
	Field string // ej. "created_at", "title"
	Desc  bool
}

// ---------- Ventana skip / take ----------

// Window acumula Skip y Take con la semántica de un operador de secuencias:
// Take tras Skip acota lo que queda, Skip tras Take encoge la ventana.
// El valor cero no recorta nada.
type Window struct {
	Offset  int
	Limit   int
	Limited bool
}

func (w Window) Skip(n int) Window {
	if n <= 0 {
		return w
	}
	w.Offset += n
	if w.Limited {
		w.Limit = max(w.Limit-n, 0)
	}
	return w
}

func (w Window) Take(n int) Window {
	if n < 0 {
		n = 0
	}
	if !w.Limited || n < w.Limit {
		w.Limit = n
		w.Limited = true
	}
	return w
}

// Empty indica que la ventana no puede devolver ningún elemento.
func (w Window) Empty() bool {
	return w.Limited && w.Limit == 0
}

// Apply devuelve cuántos de total elementos caen dentro de la ventana.
func (w Window) Apply(total int) int {
	remaining := max(total-w.Offset, 0)
	if w.Limited && w.Limit < remaining {
		return w.Limit
	}
	return remaining
}

// Bounds devuelve el rango [start, end) de la ventana sobre total elementos.
func (w Window) Bounds(total int) (int, int) {
	start := min(w.Offset, total)
	return start, start + w.Apply(total)
}
