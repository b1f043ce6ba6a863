// Package template holds the prompt template catalog and renderer.
//
// # Syntax
//
// Placeholders are single-brace names; doubled braces are literal:
//
//	Write a {tone} description of {product_name}. Use {{braces}} sparingly.
//
// # Rendering
//
// Render checks required variables, merges optional defaults, screens each
// value against a DenyList (SQL DDL, script tags, javascript: URIs, inline
// event handlers) and a 5,000 character ceiling, then substitutes:
//
//	store := template.NewStoreWithBuiltins()
//	prompt, err := store.Render("product_description", map[string]any{
//	    "product_name": "Super Widget",
//	    "features":     []string{"fast", "reliable"},
//	    "audience":     "small businesses",
//	}, template.RenderOptions{})
//
// Missing variables fail with a *VariableError wrapping ErrVariableValidation;
// rejected values fail with ErrSanitization.
//
// # Catalog
//
// Store registers, clones, enables, disables, searches, imports, and exports
// templates. LoadCatalog and SaveCatalog read and write YAML catalog files,
// CatalogSchema describes them as JSON Schema, and Watcher reloads a
// catalog when the file changes.
package template
