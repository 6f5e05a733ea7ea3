package templates

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type EntryInput struct {
	Exercise string
	Weight   float64
	Reps     int
}

type CreateTemplateInput struct {
	Name    string
	Entries []EntryInput
}

type UpdateTemplateInput struct {
	Name    Optional[string]       // cannot be null
	Entries Optional[[]EntryInput] // null clears all entries
}
