package v1

// response is the body for all single-resource responses.
type response[T any] struct {
	Data  *T      `json:"data"`
	Error *string `json:"error"`
}

// listResponse is the body for all list responses.
type listResponse[T any] struct {
	Data  []T     `json:"data"`
	Error *string `json:"error"`
}

func newResponse[T any](data T) response[T] {
	return response[T]{Data: &data}
}

func newListResponse[T any](data []T) listResponse[T] {
	return listResponse[T]{Data: data}
}
