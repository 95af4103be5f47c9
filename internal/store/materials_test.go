package store

import (
	"context"
	"testing"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

func createMaterial(t *testing.T, s *Store, siteID string, quantity, rate float64) ledger.Material {
	t.Helper()
	m, err := s.CreateMaterial(context.Background(), ledger.Material{
		SiteID:   siteID,
		Name:     "Cement",
		Unit:     ledger.UnitBag,
		Quantity: quantity,
		Rate:     rate,
	})
	if err != nil {
		t.Fatalf("CreateMaterial failed: %v", err)
	}
	return m
}

func TestCreateMaterial_ComputesTotalAmount(t *testing.T) {
	s := createTestStore(t)
	site := createSite(t, s, "Site")

	m := createMaterial(t, s, site.ID, 10, 350)
	if m.TotalAmount != 3500 {
		t.Errorf("TotalAmount = %v, want 3500", m.TotalAmount)
	}

	materials, err := s.ListMaterials(context.Background(), site.ID)
	if err != nil {
		t.Fatalf("ListMaterials failed: %v", err)
	}
	if len(materials) != 1 || materials[0].TotalAmount != 3500 {
		t.Errorf("persisted material = %+v, want TotalAmount 3500", materials)
	}
}

func TestCreateMaterial_InvalidUnit(t *testing.T) {
	s := createTestStore(t)
	site := createSite(t, s, "Site")

	_, err := s.CreateMaterial(context.Background(), ledger.Material{
		SiteID: site.ID,
		Name:   "Cement",
		Unit:   "dozen",
	})
	if !ledger.IsConstraintViolation(err) {
		t.Errorf("expected constraint violation for invalid unit, got %v", err)
	}
}

func TestUpdateMaterial_RecomputesTotalAmount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	m := createMaterial(t, s, site.ID, 10, 350)

	quantity := 20.0
	if err := s.UpdateMaterial(ctx, m.ID, ledger.MaterialPatch{Quantity: &quantity}); err != nil {
		t.Fatalf("UpdateMaterial failed: %v", err)
	}

	materials, err := s.ListMaterials(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListMaterials failed: %v", err)
	}
	if materials[0].TotalAmount != 7000 {
		t.Errorf("TotalAmount after quantity patch = %v, want 7000", materials[0].TotalAmount)
	}

	rate := 400.0
	if err := s.UpdateMaterial(ctx, m.ID, ledger.MaterialPatch{Rate: &rate}); err != nil {
		t.Fatalf("UpdateMaterial failed: %v", err)
	}

	materials, err = s.ListMaterials(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListMaterials failed: %v", err)
	}
	if materials[0].TotalAmount != 8000 {
		t.Errorf("TotalAmount after rate patch = %v, want 8000", materials[0].TotalAmount)
	}
}

func TestUpdateMaterial_NonPriceFieldsKeepTotal(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	m := createMaterial(t, s, site.ID, 10, 350)

	vendor := "Patel Traders"
	if err := s.UpdateMaterial(ctx, m.ID, ledger.MaterialPatch{VendorName: &vendor}); err != nil {
		t.Fatalf("UpdateMaterial failed: %v", err)
	}

	materials, err := s.ListMaterials(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListMaterials failed: %v", err)
	}
	if materials[0].VendorName != "Patel Traders" || materials[0].TotalAmount != 3500 {
		t.Errorf("material = %+v, want vendor updated and TotalAmount unchanged", materials[0])
	}
}

func TestUpdateMaterial_NotFound(t *testing.T) {
	s := createTestStore(t)

	quantity := 5.0
	err := s.UpdateMaterial(context.Background(), "missing", ledger.MaterialPatch{Quantity: &quantity})
	if !ledger.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestMaterialStock_SubtractsUsages(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	m := createMaterial(t, s, site.ID, 10, 350)

	for _, q := range []float64{3, 4} {
		if _, err := s.AddMaterialUsage(ctx, ledger.MaterialUsage{
			MaterialID: m.ID,
			Quantity:   q,
			Date:       testNow,
		}); err != nil {
			t.Fatalf("AddMaterialUsage failed: %v", err)
		}
	}

	stock, err := s.MaterialStock(ctx, m.ID)
	if err != nil {
		t.Fatalf("MaterialStock failed: %v", err)
	}
	if stock.Raw != 3 || stock.Remaining != 3 {
		t.Errorf("stock = %+v, want Raw 3 Remaining 3", stock)
	}
}

func TestMaterialStock_ClampsOverConsumption(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	m := createMaterial(t, s, site.ID, 10, 350)

	if _, err := s.AddMaterialUsage(ctx, ledger.MaterialUsage{
		MaterialID: m.ID,
		Quantity:   12,
		Date:       testNow,
	}); err != nil {
		t.Fatalf("AddMaterialUsage failed: %v", err)
	}

	stock, err := s.MaterialStock(ctx, m.ID)
	if err != nil {
		t.Fatalf("MaterialStock failed: %v", err)
	}
	if stock.Raw != -2 {
		t.Errorf("Raw = %v, want -2", stock.Raw)
	}
	if stock.Remaining != 0 {
		t.Errorf("Remaining = %v, want clamped 0", stock.Remaining)
	}
}

func TestMaterialStock_UnknownMaterial(t *testing.T) {
	s := createTestStore(t)

	_, err := s.MaterialStock(context.Background(), "missing")
	if !ledger.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteMaterial_CascadesUsages(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	m := createMaterial(t, s, site.ID, 10, 350)

	if _, err := s.AddMaterialUsage(ctx, ledger.MaterialUsage{
		MaterialID: m.ID,
		Quantity:   2,
		Date:       testNow,
	}); err != nil {
		t.Fatalf("AddMaterialUsage failed: %v", err)
	}

	if err := s.DeleteMaterial(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMaterial failed: %v", err)
	}
	if got := countRows(t, s, "material_usages"); got != 0 {
		t.Errorf("material_usages has %d rows after delete, want 0", got)
	}

	if err := s.DeleteMaterial(ctx, m.ID); !ledger.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND on second delete, got %v", err)
	}
}
