package repair

import (
	"encoding/json"
	"fmt"
	"os"

	"books-migrator/core/reconcile"
)

// Overrides is a literal mapping table for references the engine cannot map
// on its own, keyed by entity type then by invalid identifier. It is the
// manual escape hatch of the repair workflow, loaded from a JSON file like:
//
//	{
//	  "customer": {"cust_estelle_menzies": "stellenbosch"},
//	  "product": {"braaitas": "prod_braai_tas"}
//	}
type Overrides map[reconcile.EntityType]map[string]string

// LoadOverrides reads an override table. An empty path yields an empty table.
func LoadOverrides(path string) (Overrides, error) {
	if path == "" {
		return Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	var o Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("malformed overrides: %w", err)
	}
	return o, nil
}

// Lookup returns the manual target for an invalid reference, if declared.
func (o Overrides) Lookup(t reconcile.EntityType, ref string) (string, bool) {
	if byRef, ok := o[t]; ok {
		target, ok := byRef[ref]
		return target, ok
	}
	return "", false
}
