package dtos

import (
	"fmt"

	"github.com/poofware/mono-repo/backend/shared/go-models"
)

// ListResponse wraps one page of results. Count is the size of Data.
type ListResponse[T any] struct {
	Data   []T `json:"data"`
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

func NewListResponse[T any](data []T, page, limit, offset int) ListResponse[T] {
	data = nonNil(data)
	return ListResponse[T]{Data: data, Page: page, Limit: limit, Offset: offset, Count: len(data)}
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewDeleteResponse(r models.DeleteResult) DeleteResponse {
	return DeleteResponse{Success: r.Success, Message: r.Message}
}

type HealthCheckResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func serializeAll[M any, D any](items []*M, fn func(*M) D) []D {
	out := make([]D, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}

// deserializeAll fails on the first bad element and names its index.
func deserializeAll[D any, M any](items []D, fn func(D) (*M, error)) ([]*M, error) {
	out := make([]*M, 0, len(items))
	for i, it := range items {
		m, err := fn(it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
