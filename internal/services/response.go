package services

// Response is the outcome of a validated write. Exactly one field is set:
// Entity on success (the persisted form), Message when a business rule
// rejected the write. A rejected write never reaches the store. Lookups that
// miss and store failures are reported through the error return instead.
type Response[T any] struct {
	Entity  *T
	Message string
}

func accepted[T any](entity *T) Response[T] {
	return Response[T]{Entity: entity}
}

func rejected[T any](message string) Response[T] {
	return Response[T]{Message: message}
}
