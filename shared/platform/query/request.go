package query

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// Request agrupa los parámetros de paginación y ordenación de un listado.
// Se puede guardar cualquier entero; los valores <= 0 se sustituyen al leer.
type Request struct {
	page    int
	perPage int

	SortField     *string
	SortDirection *string // "ASC" o "DESC", sin distinguir mayúsculas
}

// NewRequest crea una petición sin ordenación.
func NewRequest(page, perPage int) Request {
	return Request{page: page, perPage: perPage}
}

// Page devuelve la página pedida o DefaultPage si es <= 0.
func (r Request) Page() int {
	if r.page <= 0 {
		return DefaultPage
	}
	return r.page
}

func (r *Request) SetPage(page int) {
	r.page = page
}

// PerPage devuelve el tamaño de página o DefaultPerPage si es <= 0.
func (r Request) PerPage() int {
	if r.perPage <= 0 {
		return DefaultPerPage
	}
	return r.perPage
}

func (r *Request) SetPerPage(perPage int) {
	r.perPage = perPage
}

// SetSort guarda campo y dirección. nil significa "no indicado".
func (r *Request) SetSort(field, direction *string) {
	r.SortField = field
	r.SortDirection = direction
}

// FilterRequest añade a Request un filtro opaco que interpreta el llamador.
type FilterRequest[F any] struct {
	Request
	Filter *F
}

// NewFilterRequest crea una petición con filtro.
func NewFilterRequest[F any](page, perPage int, filter *F) FilterRequest[F] {
	return FilterRequest[F]{Request: NewRequest(page, perPage), Filter: filter}
}
