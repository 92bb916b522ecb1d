package inventory

import (
	"strings"
	"testing"
)

func TestCategoryHierarchy(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, newTestConfig())

	parent, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Audio Visual"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	// Names chosen so that every ancestor sorts before its
	// descendants in the name-ordered listing.
	child, err := svc.CreateCategory(&CategoryCreateRequest{
		Name:     "Microphones",
		ParentID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("CreateCategory child: %v", err)
	}
	grandchild, err := svc.CreateCategory(&CategoryCreateRequest{
		Name:     "Wireless Microphones",
		ParentID: &child.ID,
	})
	if err != nil {
		t.Fatalf("CreateCategory grandchild: %v", err)
	}

	tree, err := svc.GetCategoryTree()
	if err != nil {
		t.Fatalf("GetCategoryTree: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("expected 1 root category, got %d", len(tree))
	}
	if len(tree[0].Children) != 1 || tree[0].Children[0].ID != child.ID {
		t.Fatalf("expected child %d under root, got %+v", child.ID, tree[0].Children)
	}
	nested := tree[0].Children[0].Children
	if len(nested) != 1 || nested[0].ID != grandchild.ID {
		t.Errorf("expected grandchild %d nested under child, got %+v", grandchild.ID, nested)
	}
}

func TestDuplicateCategoryNameUnderSameParent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, newTestConfig())

	if _, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Furniture"}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if _, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Furniture"}); err == nil {
		t.Error("expected duplicate root category name to be rejected")
	}

	// Same name under a different parent is fine.
	parent, _ := svc.CreateCategory(&CategoryCreateRequest{Name: "Kitchen"})
	if _, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Furniture", ParentID: &parent.ID}); err != nil {
		t.Errorf("same name under different parent should be allowed: %v", err)
	}
}

func TestCategoryCircularReferenceRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, newTestConfig())

	a, _ := svc.CreateCategory(&CategoryCreateRequest{Name: "A"})
	b, _ := svc.CreateCategory(&CategoryCreateRequest{Name: "B", ParentID: &a.ID})

	// A cannot become a child of its own descendant.
	if _, err := svc.UpdateCategory(a.ID, &CategoryUpdateRequest{ParentID: &b.ID}); err == nil {
		t.Error("expected circular reference to be rejected")
	}

	// A category cannot be its own parent.
	if _, err := svc.UpdateCategory(a.ID, &CategoryUpdateRequest{ParentID: &a.ID}); err == nil {
		t.Error("expected self-parenting to be rejected")
	}
}

func TestDeleteCategoryClearsItemReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, newTestConfig())
	itemSvc := NewService(db, newTestConfig())
	actor := seedUser(t, db)

	category, _ := svc.CreateCategory(&CategoryCreateRequest{Name: "Decorations"})
	item, err := itemSvc.CreateItem(&CreateItemRequest{
		Name:       "Advent Wreath",
		Quantity:   1,
		CategoryID: &category.ID,
	}, actor)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := svc.DeleteCategory(category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	got, err := itemSvc.GetItem(item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("expected item category to be cleared, got %v", *got.CategoryID)
	}
}

func TestDeleteCategoryBlockedWithSubcategories(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, newTestConfig())

	parent, _ := svc.CreateCategory(&CategoryCreateRequest{Name: "Music"})
	svc.CreateCategory(&CategoryCreateRequest{Name: "Sheet Music", ParentID: &parent.ID})

	err := svc.DeleteCategory(parent.ID)
	if err == nil || !strings.Contains(err.Error(), "subcategories") {
		t.Fatalf("expected subcategory guard, got %v", err)
	}
}
