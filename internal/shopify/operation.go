package shopify

import (
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var operationNames sync.Map // query string -> operation name

// OperationName returns the name of the first operation defined in query,
// or "anonymous" when it has none or does not parse.
func OperationName(query string) string {
	if v, ok := operationNames.Load(query); ok {
		return v.(string)
	}
	name := "anonymous"
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err == nil && len(doc.Operations) > 0 && doc.Operations[0].Name != "" {
		name = doc.Operations[0].Name
	}
	operationNames.Store(query, name)
	return name
}
