package service

import (
	"context"

	"cvedex/core"
	"cvedex/search"
	"cvedex/storage"
)

// resolveVendors fills Vendor.Name on each product with one lookup over the
// distinct vendor references. Products whose vendor no longer exists keep
// an empty name.
func resolveVendors(ctx context.Context, vendors storage.VendorStore, products []core.Product) error {
	if len(products) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		if p.Vendor.ID != "" && !seen[p.Vendor.ID] {
			seen[p.Vendor.ID] = true
			ids = append(ids, p.Vendor.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := vendors.FindVendors(ctx, search.Cond(search.FieldID, search.OpIn, ids), storage.FindOptions{
		Fields: []string{search.FieldName},
	})
	if err != nil {
		return err
	}

	names := make(map[string]string, len(found))
	for _, v := range found {
		names[v.ID] = v.Name
	}
	for i := range products {
		products[i].Vendor.Name = names[products[i].Vendor.ID]
	}
	return nil
}

// withSeverity derives the severity label of every record in place.
func withSeverity(vs []core.Vulnerability) []core.Vulnerability {
	for i := range vs {
		vs[i].WithSeverity()
	}
	return vs
}
