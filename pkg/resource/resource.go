// Package resource turns models into the JSON shapes the API returns.
//
// A transformer is a plain function from a model to a Map:
//
//	func Product(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name, "price": p.Price.StringFixed(2)}
//	}
//
//	c.Success(resource.Many(products, Product))
//	c.Success(resource.Paged(page, Product))
package resource

import "github.com/shashiranjanraj/electrostore/pkg/orm"

// Map is the output of a transformer.
type Map = map[string]interface{}

// Transformer converts one model into its public shape.
type Transformer[T any] func(T) Map

// Many applies fn to every item. A nil slice becomes an empty JSON array.
func Many[T any](items []T, fn Transformer[T]) []Map {
	out := make([]Map, len(items))
	for i, v := range items {
		out[i] = fn(v)
	}
	return out
}

// Optional applies fn when v is non-nil and returns nil otherwise.
func Optional[T any](v *T, fn Transformer[T]) Map {
	if v == nil {
		return nil
	}
	return fn(*v)
}

// Paged transforms a page of results and keeps its pagination fields.
func Paged[T any](p orm.Page[T], fn Transformer[T]) Map {
	return Map{
		"items":        Many(p.Items, fn),
		"page":         p.Page,
		"per_page":     p.PerPage,
		"total":        p.Total,
		"last_page":    p.LastPage,
		"has_next":     p.HasNext,
		"has_previous": p.HasPrev,
	}
}
