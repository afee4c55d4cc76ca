// Package migrations contains the storefront schema. Each migration
// registers itself from init(); importing this package for side effects
// (as cmd/electrostore and the test helpers do) makes them runnable.
package migrations
