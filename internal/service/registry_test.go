package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andy/invoicer/internal/domain"
)

func TestProductRegistry_ImportSkipsBadRows(t *testing.T) {
	reg := NewProductRegistry(newMockProductRepo(), discardLogger())

	rows := []domain.ProductFields{
		{Name: "A", WholesalePrice: "1", RetailPrice: "2", BaseUnit: "pcs"},
		{Name: "B", WholesalePrice: "1", RetailPrice: "2", BaseUnit: "kg"},
		{Name: "C", WholesalePrice: "abc", RetailPrice: "2", BaseUnit: "pcs"},
		{Name: "D", WholesalePrice: "3", RetailPrice: "4", BaseUnit: "box", UnitRatio: "12"},
		{Name: "E", WholesalePrice: "0", RetailPrice: "0", BaseUnit: "pcs"},
	}

	result := reg.Import(context.Background(), rows)
	if result.SuccessCount != 4 || result.FailureCount != 1 {
		t.Fatalf("expected 4/1, got %d/%d", result.SuccessCount, result.FailureCount)
	}
	if result.Failures[0].Index != 2 || !errors.Is(result.Failures[0].Err, domain.ErrValidation) {
		t.Fatalf("unexpected failure: %+v", result.Failures[0])
	}

	n, _ := reg.Count(context.Background())
	if n != 4 {
		t.Fatalf("expected 4 stored products, got %d", n)
	}
}

func TestProductRegistry_ImportStoreFailureCounted(t *testing.T) {
	repo := newMockProductRepo()
	repo.failOn = "B"
	reg := NewProductRegistry(repo, discardLogger())

	result := reg.Import(context.Background(), []domain.ProductFields{
		{Name: "A", WholesalePrice: "1", RetailPrice: "2", BaseUnit: "pcs"},
		{Name: "B", WholesalePrice: "1", RetailPrice: "2", BaseUnit: "pcs"},
	})
	if result.SuccessCount != 1 || result.FailureCount != 1 {
		t.Fatalf("expected 1/1, got %d/%d", result.SuccessCount, result.FailureCount)
	}
}

func TestProductRegistry_CreateValidation(t *testing.T) {
	reg := NewProductRegistry(newMockProductRepo(), discardLogger())

	_, err := reg.Create(context.Background(), domain.ProductFields{Name: "X", WholesalePrice: "1", RetailPrice: "nope"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !verr.Has("retail_price") || !verr.Has("base_unit") {
		t.Fatalf("expected retail_price and base_unit failures, got %v", verr)
	}
}

func TestProductRegistry_SelectAndDelete(t *testing.T) {
	ctx := context.Background()
	gadget := widget()
	gadget.Name = "Gadget"
	reg := NewProductRegistry(newMockProductRepo(widget(), gadget), discardLogger())

	if _, err := reg.Search(ctx, ""); err != nil {
		t.Fatalf("search: %v", err)
	}
	if err := reg.Select(99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound selecting unlisted row, got %v", err)
	}
	if err := reg.Select(2); err != nil {
		t.Fatalf("select: %v", err)
	}

	selected := 0
	for _, row := range reg.Rows() {
		if row.Selected {
			selected++
		}
	}
	if selected != 1 {
		t.Fatalf("expected exactly one selected row, got %d", selected)
	}

	if err := reg.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := reg.Selected(); ok {
		t.Fatalf("deleting the selected row must clear the selection")
	}
	if err := reg.Delete(ctx, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductRegistry_DeleteAllNeedsBothConfirmations(t *testing.T) {
	ctx := context.Background()
	reg := NewProductRegistry(newMockProductRepo(widget()), discardLogger())

	if _, err := reg.DeleteAll(ctx, DeleteAllConfirmation{Confirmed: true}); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}

	var flow DeleteAllFlow
	if !flow.Start(1) {
		t.Fatalf("expected flow to start")
	}
	if _, done := flow.Confirm(); done {
		t.Fatalf("first confirmation must not finish the flow")
	}
	if flow.State() != DeleteAllPendingFinalConfirm {
		t.Fatalf("expected pending final confirm, got %s", flow.State())
	}
	confirm, done := flow.Confirm()
	if !done || flow.State() != DeleteAllExecuted {
		t.Fatalf("expected executed state")
	}

	n, err := reg.DeleteAll(ctx, confirm)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 deleted, got %d (%v)", n, err)
	}
}

func TestDeleteAllFlow_Cancel(t *testing.T) {
	var flow DeleteAllFlow
	if flow.Start(0) {
		t.Fatalf("nothing to delete should not start the flow")
	}

	flow.Start(5)
	if flow.Prompt() == "" {
		t.Fatalf("expected a prompt")
	}
	flow.Confirm()
	flow.Cancel()
	if flow.State() != DeleteAllIdle {
		t.Fatalf("expected idle after cancel, got %s", flow.State())
	}
	if _, done := flow.Confirm(); done {
		t.Fatalf("confirm from idle must do nothing")
	}
}

func TestCustomerRegistry_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	reg := NewCustomerRegistry(&mockCustomerRepo{customers: map[int64]*domain.Customer{}}, discardLogger())

	if _, err := reg.Create(ctx, domain.CustomerFields{Name: "  "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	c, err := reg.Create(ctx, domain.CustomerFields{Name: "ACME"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := reg.Update(ctx, c.ID, domain.CustomerFields{Name: "ACME Ltd", Phone: "555"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "ACME Ltd" || updated.Phone != "555" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if _, err := reg.Search(ctx, ""); err != nil {
		t.Fatalf("search: %v", err)
	}
	if err := reg.Select(c.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := reg.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(reg.Rows()) != 0 {
		t.Fatalf("expected no rows after delete")
	}
}
