package query

import "context"

// Paginate cuenta q, calcula los metadatos y materializa una sola página.
// Hace exactamente dos evaluaciones contra el backing store y no las envuelve en
// ninguna transacción: con escrituras concurrentes Total y Data pueden no cuadrar.
func Paginate[T any](ctx context.Context, q Queryable[T], page, perPage int) (*PagedResult[T], error) {
	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}

	result := NewPagedResult[T](total, page, perPage)

	// Con page <= 0 el offset es page*perPage, que nunca es positivo.
	offset := page * perPage
	if page > 0 {
		offset = (page - 1) * perPage
	}

	data, err := q.Skip(offset).Take(perPage).List(ctx)
	if err != nil {
		return nil, err
	}
	if data != nil {
		result.Data = data
	}

	return result, nil
}

// ---------- Paginator ----------

// PageRequest lo cumplen Request y FilterRequest.
type PageRequest interface {
	Page() int
	PerPage() int
}

// Pager es el puerto que consumen los servicios.
type Pager[T any] interface {
	Paginate(ctx context.Context, q Queryable[T], req PageRequest) (*PagedResult[T], error)
}

// Paginator sólo trocea: no aplica el filtro ni la ordenación de la petición.
type Paginator[T any] struct{}

func NewPaginator[T any]() *Paginator[T] {
	return &Paginator[T]{}
}

// Paginate reenvía la página y el tamaño efectivos de req a Paginate.
func (p *Paginator[T]) Paginate(ctx context.Context, q Queryable[T], req PageRequest) (*PagedResult[T], error) {
	return Paginate(ctx, q, req.Page(), req.PerPage())
}

// Verificación estática
var _ Pager[struct{}] = (*Paginator[struct{}])(nil)
