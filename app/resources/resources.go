// Package resources defines the public JSON shape of each model. Money is
// always rendered as a string with two decimals.
package resources

import (
	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/pkg/resource"
	"github.com/shashiranjanraj/electrostore/pkg/storage"
)

type Map = resource.Map

func Category(c models.Category) Map {
	return Map{
		"id":          c.ID,
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"url":         c.URL(),
	}
}

// ProductSummary is the listing card shape.
func ProductSummary(p models.Product) Map {
	return Map{
		"id":       p.ID,
		"name":     p.Name,
		"slug":     p.Slug,
		"price":    p.Price.StringFixed(2),
		"in_stock": p.InStock(),
		"image":    imageURL(p.Image),
		"url":      p.URL(),
		"category": resource.Optional(p.Category, Category),
	}
}

func Product(p models.Product) Map {
	m := ProductSummary(p)
	m["description"] = p.Description
	m["stock_quantity"] = p.StockQuantity
	m["created_at"] = p.CreatedAt
	return m
}

// SearchResult is the typeahead row.
func SearchResult(p models.Product) Map {
	return Map{
		"id":    p.ID,
		"name":  p.Name,
		"price": p.Price.StringFixed(2),
		"url":   p.URL(),
		"image": imageURL(p.Image),
	}
}

func CartItem(i models.CartItem) Map {
	return Map{
		"id":          i.ID,
		"product":     ProductSummary(i.Product),
		"quantity":    i.Quantity,
		"total_price": i.TotalPrice().StringFixed(2),
		"added_at":    i.AddedAt,
	}
}

func Cart(c models.Cart) Map {
	return Map{
		"id":          c.ID,
		"items":       resource.Many(c.Items, CartItem),
		"total_items": c.TotalItems(),
		"total_price": c.TotalPrice().StringFixed(2),
	}
}

func OrderItem(i models.OrderItem) Map {
	return Map{
		"id":           i.ID,
		"product_id":   i.ProductID,
		"product_name": i.ProductName,
		"quantity":     i.Quantity,
		"price":        i.Price.StringFixed(2),
		"total_price":  i.TotalPrice().StringFixed(2),
	}
}

func Order(o models.Order) Map {
	return Map{
		"id":               o.ID,
		"status":           o.Status,
		"total_amount":     o.TotalAmount.StringFixed(2),
		"first_name":       o.FirstName,
		"last_name":        o.LastName,
		"email":            o.Email,
		"phone":            o.Phone,
		"shipping_address": o.ShippingAddress,
		"items":            resource.Many(o.Items, OrderItem),
		"created_at":       o.CreatedAt,
	}
}

func Review(r models.Review) Map {
	author := ""
	if r.User != nil {
		author = r.User.Username
	}
	return Map{
		"id":         r.ID,
		"user":       author,
		"rating":     r.Rating,
		"comment":    r.Comment,
		"created_at": r.CreatedAt,
	}
}

func Wishlist(w models.Wishlist) Map {
	return Map{
		"id":       w.ID,
		"product":  ProductSummary(w.Product),
		"added_at": w.AddedAt,
	}
}

func Profile(p models.UserProfile) Map {
	var dob interface{}
	if p.DateOfBirth != nil {
		dob = p.DateOfBirth.Format("2006-01-02")
	}
	return Map{
		"phone_number":  p.PhoneNumber,
		"address":       p.Address,
		"date_of_birth": dob,
	}
}

func User(u models.User) Map {
	return Map{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"profile":    resource.Optional(u.Profile, Profile),
	}
}

func imageURL(path string) string {
	if path == "" {
		return ""
	}
	return storage.URL(path)
}
