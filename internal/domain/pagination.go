package domain

// Page описывает запрошенную страницу списка
type Page struct {
	Number int // Номер страницы, начиная с 1
	Limit  int // Размер страницы
}

// MaxPageLimit ограничивает размер страницы сверху
const MaxPageLimit = 100

// NewPage нормализует параметры пагинации: некорректные значения заменяются значениями по умолчанию
func NewPage(number, limit, defaultLimit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset возвращает количество пропускаемых записей
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages возвращает количество страниц для total записей
func (p Page) TotalPages(total int) int {
	if p.Limit <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// PageResult содержит страницу элементов и общее количество
type PageResult[T any] struct {
	Items []T
	Total int
	Page  Page
}
