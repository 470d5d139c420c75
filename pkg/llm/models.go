package llm

import "fmt"

// ModelCatalog maps the logical model ids used by the API to backend model names.
type ModelCatalog map[string]string

func (c ModelCatalog) Resolve(id string) (string, error) {
	name, ok := c[id]
	if !ok || name == "" {
		return "", fmt.Errorf("unknown model id %q", id)
	}
	return name, nil
}
