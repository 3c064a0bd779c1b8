// Package template defines the renderer-agnostic compiler seam used by the
// storefront: compile a partial source, execute it against a context and
// return the produced markup.
package template
