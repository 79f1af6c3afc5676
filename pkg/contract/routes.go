package contract

import (
	"fmt"
	"net/http"
	"strings"
)

// APIPrefix is the group every route is mounted under.
const APIPrefix = "/api"

// Result size of GET /api/baths/search when size is omitted, and the cap
// applied to larger requests.
const (
	DefaultSearchSize = 20
	MaxSearchSize     = 100
)

// ClampSearchSize maps a requested size onto [1, MaxSearchSize].
func ClampSearchSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSearchSize
	case size > MaxSearchSize:
		return MaxSearchSize
	}
	return size
}

// Shape names a request or response body layout.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeBath
	ShapeBathList
	ShapeBathStats
	ShapeCreateInput
	ShapeUpdateInput
	ShapeValidationError
	ShapeNotFound
)

// Route is one entry of the route table shared by server and client.
type Route struct {
	Name      string
	Method    string
	Path      string
	Input     Shape
	Responses map[int]Shape
}

var (
	ListBaths = Route{
		Name:   "list baths",
		Method: http.MethodGet,
		Path:   "/api/baths",
		Responses: map[int]Shape{
			http.StatusOK: ShapeBathList,
		},
	}
	GetBath = Route{
		Name:   "get bath",
		Method: http.MethodGet,
		Path:   "/api/baths/:id",
		Responses: map[int]Shape{
			http.StatusOK:       ShapeBath,
			http.StatusNotFound: ShapeNotFound,
		},
	}
	CreateBath = Route{
		Name:   "create bath",
		Method: http.MethodPost,
		Path:   "/api/baths",
		Input:  ShapeCreateInput,
		Responses: map[int]Shape{
			http.StatusCreated:    ShapeBath,
			http.StatusBadRequest: ShapeValidationError,
		},
	}
	UpdateBath = Route{
		Name:   "update bath",
		Method: http.MethodPut,
		Path:   "/api/baths/:id",
		Input:  ShapeUpdateInput,
		Responses: map[int]Shape{
			http.StatusOK:         ShapeBath,
			http.StatusBadRequest: ShapeValidationError,
			http.StatusNotFound:   ShapeNotFound,
		},
	}
	DeleteBath = Route{
		Name:   "delete bath",
		Method: http.MethodDelete,
		Path:   "/api/baths/:id",
		Responses: map[int]Shape{
			http.StatusNoContent: ShapeNone,
			http.StatusNotFound:  ShapeNotFound,
		},
	}
	BathStats = Route{
		Name:   "bath stats",
		Method: http.MethodGet,
		Path:   "/api/baths/stats",
		Responses: map[int]Shape{
			http.StatusOK: ShapeBathStats,
		},
	}
	SearchBaths = Route{
		Name:   "search baths",
		Method: http.MethodGet,
		Path:   "/api/baths/search",
		Responses: map[int]Shape{
			http.StatusOK:         ShapeBathList,
			http.StatusBadRequest: ShapeValidationError,
		},
	}
)

// Routes is the full route table in registration order.
var Routes = []Route{ListBaths, BathStats, SearchBaths, GetBath, CreateBath, UpdateBath, DeleteBath}

// Relative returns the path below APIPrefix, as registered on the /api group.
func (r Route) Relative() string {
	return strings.TrimPrefix(r.Path, APIPrefix)
}

// URL substitutes params into the route path.
func (r Route) URL(params map[string]any) string {
	return BuildURL(r.Path, params)
}

// Expects returns the response shape declared for status.
func (r Route) Expects(status int) (Shape, bool) {
	s, ok := r.Responses[status]
	return s, ok
}

// BuildURL replaces every ":name" token of path whose name is in params.
// Tokens absent from params are left as they are.
func BuildURL(path string, params map[string]any) string {
	if len(params) == 0 {
		return path
	}
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if v, ok := params[seg[1:]]; ok {
			segs[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(segs, "/")
}
