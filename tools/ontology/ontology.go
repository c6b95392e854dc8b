// Package ontology implements the BioPortal tools exposed to agents
// and MCP clients: ontology term search, property search, usage
// analytics and text annotation.
package ontology

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()
