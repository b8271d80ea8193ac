// Package apicontract holds the OpenAPI description of the POS HTTP API.
package apicontract

import _ "embed"

//go:embed openapi.yml
var openAPI []byte

// OpenAPI returns a copy of the YAML document, safe for callers to modify.
func OpenAPI() []byte {
	return append([]byte(nil), openAPI...)
}
