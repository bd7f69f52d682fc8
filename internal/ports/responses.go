// Package ports declares the repository interfaces the use-case layer
// (internal/usecase) depends on. No concrete storage is implemented here
// — that is out of scope per the core's persistence-interface boundary.
package ports

// FetchResponseKind wraps the outcome of fetching a single record.
type FetchResponseKind[T any] struct {
	found bool
	value T
}

func Found[T any](value T) FetchResponseKind[T] { return FetchResponseKind[T]{found: true, value: value} }
func NotFound[T any]() FetchResponseKind[T]      { return FetchResponseKind[T]{} }

func (r FetchResponseKind[T]) IsFound() bool { return r.found }
func (r FetchResponseKind[T]) Value() T      { return r.value }

// FetchManyResponseKind wraps the outcome of a list query.
type FetchManyResponseKind[T any] struct {
	records []T
}

func FoundMany[T any](records []T) FetchManyResponseKind[T] {
	return FetchManyResponseKind[T]{records: records}
}

func (r FetchManyResponseKind[T]) Records() []T { return r.records }

// CreateResponseKind wraps the outcome of a create operation.
type CreateResponseKind[T any] struct {
	created bool
	value   T
	reason  string
}

func Created[T any](value T) CreateResponseKind[T] {
	return CreateResponseKind[T]{created: true, value: value}
}

func NotCreated[T any](reason string) CreateResponseKind[T] {
	return CreateResponseKind[T]{reason: reason}
}

func (r CreateResponseKind[T]) IsCreated() bool { return r.created }
func (r CreateResponseKind[T]) Value() T        { return r.value }
func (r CreateResponseKind[T]) Reason() string  { return r.reason }

// UpdatingResponseKind wraps the outcome of an update operation.
type UpdatingResponseKind[T any] struct {
	updated bool
	value   T
	reason  string
}

func Updated[T any](value T) UpdatingResponseKind[T] {
	return UpdatingResponseKind[T]{updated: true, value: value}
}

func NotUpdated[T any](reason string) UpdatingResponseKind[T] {
	return UpdatingResponseKind[T]{reason: reason}
}

func (r UpdatingResponseKind[T]) IsUpdated() bool { return r.updated }
func (r UpdatingResponseKind[T]) Value() T        { return r.value }
func (r UpdatingResponseKind[T]) Reason() string  { return r.reason }

// DeletionResponseKind wraps the outcome of a delete operation.
type DeletionResponseKind struct {
	deleted bool
	reason  string
}

func Deleted() DeletionResponseKind                  { return DeletionResponseKind{deleted: true} }
func NotDeleted(reason string) DeletionResponseKind  { return DeletionResponseKind{reason: reason} }
func (r DeletionResponseKind) IsDeleted() bool        { return r.deleted }
func (r DeletionResponseKind) Reason() string         { return r.reason }
