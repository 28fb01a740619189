package repository

import (
	"testing"

	"github.com/florist-erp/internal/models"
)

func TestCustomerRepositoryPrefixSearch(t *testing.T) {
	repo := NewCustomerRepository(openTestDB(t))
	for _, c := range []models.Customer{
		{Name: "김철수", Contact: "010-1111-2222"},
		{Name: "김영희", Contact: "010-3333-4444"},
		{Name: "이김수", Contact: "010-5555-6666"},
		{Name: "100%_고객", Contact: "010-7777-8888"},
		{Name: "100원고객", Contact: "010-9999-0000"},
	} {
		customer := c
		if err := repo.Create(&customer); err != nil {
			t.Fatalf("create customer failed: %v", err)
		}
	}

	list, total, err := repo.List(CustomerListFilter{NamePrefix: "김", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 prefix matches, got total=%d len=%d", total, len(list))
	}
	for _, c := range list {
		if c.Name == "이김수" {
			t.Fatalf("prefix search must not match infix")
		}
	}

	list, _, err = repo.List(CustomerListFilter{NamePrefix: "100%"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].Name != "100%_고객" {
		t.Fatalf("wildcards should be escaped, got %+v", list)
	}
}

func TestCustomerRepositoryFindByNameAndContact(t *testing.T) {
	repo := NewCustomerRepository(openTestDB(t))
	customer := &models.Customer{Name: "박민수", Contact: "010-1234-5678"}
	if err := repo.Create(customer); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	got, err := repo.FindByNameAndContact("박민수", "010-1234-5678")
	if err != nil || got == nil || got.ID != customer.ID {
		t.Fatalf("expected duplicate hit, got %v %v", got, err)
	}
	got, err = repo.FindByNameAndContact("박민수", "010-0000-0000")
	if err != nil || got != nil {
		t.Fatalf("different contact is not a duplicate: %v %v", got, err)
	}
}
