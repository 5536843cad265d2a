package minter

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"minter/internal/models"
)

// ValidateMintRequest applies the checks of the create form: non-empty name,
// description and image, a valid recipient if one is given, and at least
// MinAttributes non-empty traits with no trait repeated.
func ValidateMintRequest(req models.MintRequest) error {
	var problems []string

	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		problems = append(problems, "description is required")
	}
	if strings.TrimSpace(req.Image) == "" {
		problems = append(problems, "image is required")
	}
	if req.Recipient != "" && !common.IsHexAddress(req.Recipient) {
		problems = append(problems, fmt.Sprintf("recipient %q is not an address", req.Recipient))
	}

	set := models.NewAttributeSet()
	for _, a := range req.Attributes {
		if strings.TrimSpace(a.TraitType) == "" || strings.TrimSpace(a.Value) == "" {
			problems = append(problems, "attributes need a trait_type and a value")
			break
		}
		if _, dup := set.Get(a.TraitType); dup {
			problems = append(problems, fmt.Sprintf("duplicate trait %q", a.TraitType))
			break
		}
		set.Set(a.TraitType, a.Value)
	}
	if set.Len() < models.MinAttributes {
		problems = append(problems, fmt.Sprintf("at least %d distinct attributes are required, got %d", models.MinAttributes, set.Len()))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(problems, "; "))
	}
	return nil
}
