package filter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/validation"
)

// ParseFilter decodes a JSON filter definition and checks its structure.
// Criteria with mismatched operators or values are accepted here; evaluation
// fails them open.
func ParseFilter(r io.Reader) (models.AdvancedFilter, error) {
	var f models.AdvancedFilter
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return models.AdvancedFilter{}, fmt.Errorf("failed to decode filter: %w", err)
	}
	if err := validation.Struct(f); err != nil {
		return models.AdvancedFilter{}, err
	}
	return f, nil
}
