package entities

import (
	"fmt"
	"strings"
)

// AssetRepoMapping is the positional correspondence between product
// identifiers and resource identifiers. Built once at startup and immutable
// for the process lifetime.
type AssetRepoMapping struct {
	products  []string
	resources []string
}

// NewAssetRepoMapping validates and builds the mapping. The two lists must
// have equal length and no empty entries; a violated configuration must stop
// the process, so this is the only constructor.
func NewAssetRepoMapping(products, resources []string) (AssetRepoMapping, error) {
	if len(products) != len(resources) {
		return AssetRepoMapping{}, fmt.Errorf(
			"asset/repo list length mismatch: %d products vs %d resources",
			len(products), len(resources),
		)
	}
	if len(products) == 0 {
		return AssetRepoMapping{}, fmt.Errorf("asset/repo mapping is empty")
	}
	for i, p := range products {
		if strings.TrimSpace(p) == "" {
			return AssetRepoMapping{}, fmt.Errorf("empty product identifier at position %d", i)
		}
		if strings.TrimSpace(resources[i]) == "" {
			return AssetRepoMapping{}, fmt.Errorf("empty resource identifier at position %d", i)
		}
	}
	return AssetRepoMapping{
		products:  append([]string(nil), products...),
		resources: append([]string(nil), resources...),
	}, nil
}

// Resolve returns the resource identifier mapped to a product identifier.
func (m AssetRepoMapping) Resolve(productID string) (string, bool) {
	for i, p := range m.products {
		if p == productID {
			return m.resources[i], true
		}
	}
	return "", false
}

// Len returns the number of mapped products.
func (m AssetRepoMapping) Len() int { return len(m.products) }
