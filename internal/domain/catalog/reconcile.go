package catalog

import "github.com/google/uuid"

// VariantPlan is the diff between a product's stored variants and an
// incoming variant set, keyed by trimmed SKU
type VariantPlan struct {
	Delete []Variant
	Update []Variant
	Create []Variant
}

// Empty reports whether applying the plan changes nothing
func (p VariantPlan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Update) == 0 && len(p.Create) == 0
}

// PlanVariants computes the reconciliation of current against incoming.
//
// Stored SKUs missing from incoming are deleted. SKUs present in both keep
// their row and take color, image and stock from incoming. New SKUs are
// created for productID. When two incoming entries share a key the last
// one wins.
func PlanVariants(productID uuid.UUID, current []Variant, incoming []VariantSpec) VariantPlan {
	wanted := make(map[string]VariantSpec, len(incoming))
	order := make([]string, 0, len(incoming))
	for _, spec := range incoming {
		key := NormalizeSKUKey(spec.SKU)
		if _, seen := wanted[key]; !seen {
			order = append(order, key)
		}
		wanted[key] = spec
	}

	existing := make(map[string]Variant, len(current))
	var plan VariantPlan
	for _, v := range current {
		key := NormalizeSKUKey(v.SKU)
		existing[key] = v
		if _, keep := wanted[key]; !keep {
			plan.Delete = append(plan.Delete, v)
		}
	}

	owner := &Product{}
	owner.ID = productID
	for _, key := range order {
		spec := wanted[key]
		if v, ok := existing[key]; ok {
			v.Color = spec.Color
			v.ImageURL = spec.ImageURL
			v.Stock = spec.Stock
			v.Touch()
			plan.Update = append(plan.Update, v)
			continue
		}
		plan.Create = append(plan.Create, *owner.NewVariant(spec))
	}
	return plan
}
