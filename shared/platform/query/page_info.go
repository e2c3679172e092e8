package query

import "math"

// PageInfo contiene los metadatos de una página.
// From y To son los límites pedidos, no se recortan al total.
type PageInfo struct {
	Total       int `json:"total"`
	PerPage     int `json:"perPage"`
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// NewPageInfo calcula los metadatos a partir del total, la página y el tamaño.
// page y perPage se usan tal cual; los valores por defecto viven en Request.
func NewPageInfo(total, page, perPage int) PageInfo {
	return PageInfo{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage(total, perPage),
		From:        (page-1)*perPage + 1,
		To:          page * perPage,
	}
}

// Degenerate indica que perPage no permite calcular LastPage con sentido.
func (p PageInfo) Degenerate() bool {
	return p.PerPage <= 0
}

// lastPage = ceil(total / perPage). Con perPage == 0 el cociente es +Inf
// (satura a math.MaxInt) o NaN cuando total también es 0 (queda en 0).
func lastPage(total, perPage int) int {
	pages := math.Ceil(float64(total) / float64(perPage))
	switch {
	case math.IsNaN(pages):
		return 0
	case math.IsInf(pages, 1):
		return math.MaxInt
	case math.IsInf(pages, -1):
		return math.MinInt
	}
	return int(pages)
}

// PagedResult es la respuesta paginada: metadatos más los datos de la página.
type PagedResult[T any] struct {
	PageInfo
	Data []T `json:"data"`
}

// NewPagedResult crea un resultado vacío con los metadatos calculados.
func NewPagedResult[T any](total, page, perPage int) *PagedResult[T] {
	return NewPagedResultFrom[T](NewPageInfo(total, page, perPage))
}

// NewPagedResultFrom copia los metadatos de otra página.
func NewPagedResultFrom[T any](info PageInfo) *PagedResult[T] {
	return &PagedResult[T]{
		PageInfo: info,
		Data:     []T{},
	}
}
