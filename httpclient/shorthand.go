package httpclient

import (
	"context"

	"github.com/gaborage/go-courier/endpoint"
)

// Method shorthands execute a copy of the descriptor with the verb forced,
// leaving the caller's descriptor untouched. They work with any Client,
// decorated or not.

func Get(ctx context.Context, c Client, desc *endpoint.Descriptor) (*Response, error) {
	return executeAs(ctx, c, desc, endpoint.MethodGet)
}

func Post(ctx context.Context, c Client, desc *endpoint.Descriptor) (*Response, error) {
	return executeAs(ctx, c, desc, endpoint.MethodPost)
}

func Put(ctx context.Context, c Client, desc *endpoint.Descriptor) (*Response, error) {
	return executeAs(ctx, c, desc, endpoint.MethodPut)
}

func Patch(ctx context.Context, c Client, desc *endpoint.Descriptor) (*Response, error) {
	return executeAs(ctx, c, desc, endpoint.MethodPatch)
}

func Delete(ctx context.Context, c Client, desc *endpoint.Descriptor) (*Response, error) {
	return executeAs(ctx, c, desc, endpoint.MethodDelete)
}

func executeAs(ctx context.Context, c Client, desc *endpoint.Descriptor, method endpoint.Method) (*Response, error) {
	if desc == nil {
		return nil, NewRequestError("descriptor cannot be nil", nil)
	}
	if desc.Method == method {
		return c.Execute(ctx, desc)
	}
	clone := *desc
	clone.Method = method
	return c.Execute(ctx, &clone)
}
