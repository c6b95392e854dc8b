// Package tools defines the Tool contracts shared by the BioPortal
// tools: naming, parameter schemas, typed execution and MCP server
// registration.
package tools
