// Package domain holds the core model of scimcheck: the SCIM resource-kind
// catalog, scenario and step definitions, observable surface state, run
// results, and error types. It depends only on the standard library plus
// google/uuid, so every other layer can import it freely.
package domain
