package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownRoute is returned by ParseRoute for paths outside the route table.
var ErrUnknownRoute = errors.New("unknown route")

type RouteKind int

const (
	ListingRoute RouteKind = iota
	DetailRoute
	AuthRoute
	UploadRoute
)

// Route names a screen. ID is only meaningful for DetailRoute.
type Route struct {
	Kind RouteKind
	ID   int
}

// ParseRoute maps "/", "/article/{id}", "/auth" and "/upload" to routes.
func ParseRoute(path string) (Route, error) {
	p := strings.TrimSpace(path)
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	switch p {
	case "", "/":
		return Route{Kind: ListingRoute}, nil
	case "/auth":
		return Route{Kind: AuthRoute}, nil
	case "/upload":
		return Route{Kind: UploadRoute}, nil
	}
	if rest, ok := strings.CutPrefix(p, "/article/"); ok {
		id, err := strconv.Atoi(rest)
		if err != nil || id < 0 {
			return Route{}, fmt.Errorf("%w: %q: bad article id", ErrUnknownRoute, path)
		}
		return Route{Kind: DetailRoute, ID: id}, nil
	}
	return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
}

// Path is the inverse of ParseRoute.
func (r Route) Path() string {
	switch r.Kind {
	case DetailRoute:
		return "/article/" + strconv.Itoa(r.ID)
	case AuthRoute:
		return "/auth"
	case UploadRoute:
		return "/upload"
	default:
		return "/"
	}
}

func (r Route) String() string { return r.Path() }
