package service

import (
	"errors"

	"github.com/yourorg/propmanager/internal/domain"
)

// Kind classifies a response so the transport layer can pick an HTTP status
// without inspecting error strings.
type Kind int

const (
	KindOK Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
	KindInternal
)

// Meta carries pagination information for list responses.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// Response is the uniform envelope for single-item operations. Expected
// business conditions (validation failure, unknown id, store down) are
// reported inside the envelope, never as Go errors.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
	Kind    Kind   `json:"-"`
}

// ListResponse is the uniform envelope for collection operations.
type ListResponse[T any] struct {
	Success bool   `json:"success"`
	Data    []T    `json:"data"`
	Error   string `json:"error,omitempty"`
	Meta    Meta   `json:"meta"`
	Kind    Kind   `json:"-"`
}

func ok[T any](data *T, message string) Response[T] {
	return Response[T]{Success: true, Data: data, Message: message}
}

func fail[T any](kind Kind, msg string) Response[T] {
	return Response[T]{Success: false, Error: msg, Kind: kind}
}

func okList[T any](data []T, meta Meta) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Success: true, Data: data, Meta: meta}
}

func failList[T any](kind Kind, msg string) ListResponse[T] {
	return ListResponse[T]{Success: false, Data: []T{}, Error: msg, Kind: kind}
}

// classify maps a repository or domain error to an envelope kind.
func classify(err error) Kind {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, domain.ErrNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrConflict):
		return KindConflict
	case errors.Is(err, domain.ErrUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}

func failFrom[T any](err error) Response[T] {
	return fail[T](classify(err), err.Error())
}

func failListFrom[T any](err error) ListResponse[T] {
	return failList[T](classify(err), err.Error())
}

// listMeta builds pagination metadata. Limit<=0 means the whole collection
// was returned as a single page.
func listMeta(total, page, limit int) Meta {
	if limit <= 0 {
		return Meta{Total: total, Page: 1, Limit: total, Pages: 1}
	}
	if page < 1 {
		page = 1
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return Meta{Total: total, Page: page, Limit: limit, Pages: pages}
}
