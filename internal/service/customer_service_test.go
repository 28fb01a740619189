package service

import (
	"errors"
	"testing"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/repository"
)

func TestCustomerServiceDuplicateRequiresNameAndContact(t *testing.T) {
	svc := NewCustomerService(repository.NewCustomerRepository(openServiceTestDB(t)))

	first, err := svc.Create(CustomerInput{Name: "김고객", Contact: "010-1111-2222"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(CustomerInput{Name: " 김고객 ", Contact: "010-1111-2222"}); !errors.Is(err, ErrCustomerExists) {
		t.Fatalf("expected ErrCustomerExists, got %v", err)
	}
	if _, err := svc.Create(CustomerInput{Name: "김고객", Contact: "010-9999-0000"}); err != nil {
		t.Fatalf("same name with different contact should be allowed: %v", err)
	}
	if _, err := svc.Update(first.ID, CustomerInput{Name: "김고객", Contact: "010-1111-2222", Grade: "VIP"}); err != nil {
		t.Fatalf("updating self should not count as duplicate: %v", err)
	}
	if _, err := svc.Update(first.ID, CustomerInput{Name: "김고객", Contact: "010-9999-0000"}); !errors.Is(err, ErrCustomerExists) {
		t.Fatalf("expected ErrCustomerExists on update, got %v", err)
	}
}

func TestCustomerServiceValidationAndSearch(t *testing.T) {
	svc := NewCustomerService(repository.NewCustomerRepository(openServiceTestDB(t)))

	if _, err := svc.Create(CustomerInput{Name: "", Contact: "010"}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(CustomerInput{Name: "a", Contact: "010", Email: "bad"}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for email, got %v", err)
	}
	for _, name := range []string{"박하나", "박두리", "최세나"} {
		if _, err := svc.Create(CustomerInput{Name: name, Contact: "010-" + name}); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}
	items, total, err := svc.Search(repository.CustomerListFilter{NamePrefix: " 박", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 results, got total=%d len=%d", total, len(items))
	}
	if err := svc.Delete(items[0].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
