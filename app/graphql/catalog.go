// Package graphql exposes the catalog as a read-only GraphQL schema.
//
//	{ products(category: "phones", sort: "price_low") { total items { name price } } }
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/services"
	gql "github.com/shashiranjanraj/electrostore/pkg/graphql"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"name":        &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"name":        &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Price.StringFixed(2), nil
			},
		},
		"stockQuantity": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).StockQuantity, nil
			},
		},
		"inStock": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).InStock(), nil
			},
		},
		"url": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).URL(), nil
			},
		},
		"category": &graphql.Field{
			Type: categoryType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c := p.Source.(models.Product).Category; c != nil {
					return *c, nil
				}
				return nil, nil
			},
		},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"items":    &graphql.Field{Type: graphql.NewList(productType)},
		"page":     &graphql.Field{Type: graphql.Int},
		"lastPage": &graphql.Field{Type: graphql.Int},
		"total":    &graphql.Field{Type: graphql.Int},
	},
})

// NewSchema builds the root query over the catalog service.
func NewSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.Categories(p.Context)
				},
			},
			"products": &graphql.Field{
				Type: productPageType,
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"minPrice": &graphql.ArgumentConfig{Type: graphql.String},
					"maxPrice": &graphql.ArgumentConfig{Type: graphql.String},
					"sort":     &graphql.ArgumentConfig{Type: graphql.String},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := services.ProductFilter{
						Category: stringArg(p, "category"),
						Search:   stringArg(p, "search"),
						MinPrice: stringArg(p, "minPrice"),
						MaxPrice: stringArg(p, "maxPrice"),
						Sort:     stringArg(p, "sort"),
					}
					if n, ok := p.Args["page"].(int); ok {
						f.Page = n
					}
					l, err := catalog.List(p.Context, f)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"items":    l.Products.Items,
						"page":     l.Products.Page,
						"lastPage": l.Products.LastPage,
						"total":    l.Products.Total,
					}, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.ActiveBySlug(p.Context, stringArg(p, "slug"))
				},
			},
			"search": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"q": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.Search(p.Context, stringArg(p, "q"))
				},
			},
		},
	})
	return gql.NewSchema(query)
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}
