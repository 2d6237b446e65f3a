package queue

import (
	"errors"
	"testing"

	"github.com/dlpal/dlpal/internal/model"
)

func listItem(id string) *model.QueueItem {
	return &model.QueueItem{
		ID:          id,
		VideoID:     "v1",
		VideoFormat: "vf-1",
		SaveDir:     "/tmp",
		Title:       "Title",
	}
}

func TestListAddEditDelete(t *testing.T) {
	list := NewList()

	if err := list.Add(listItem("a")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := list.Add(listItem("b")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Invalid items are rejected
	if err := list.Add(&model.QueueItem{ID: "c"}); err == nil {
		t.Error("Expected error for invalid item")
	}

	// Edit keeps the position and never touches the caller's struct
	edited := listItem("ignored")
	edited.Title = "New Title"
	if err := list.Edit("a", edited); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	items := list.Items()
	if items[0].ID != "a" || items[0].Title != "New Title" {
		t.Errorf("Expected edited item in place, got %+v", items[0])
	}
	if edited.ID != "ignored" {
		t.Errorf("Expected caller's item to keep its id, got %q", edited.ID)
	}

	if err := list.Delete("a"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if list.Len() != 1 || list.Items()[0].ID != "b" {
		t.Errorf("Expected only item b left, got %d items", list.Len())
	}

	if err := list.Delete("missing"); err == nil {
		t.Error("Expected error for unknown id")
	}

	if err := list.Clear(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if list.Len() != 0 {
		t.Errorf("Expected empty list, got %d items", list.Len())
	}
}

func TestListLockedWhileRunning(t *testing.T) {
	list := NewList()
	list.Add(listItem("a"))

	snapshot, err := list.BeginRun()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(snapshot) != 1 {
		t.Fatalf("Expected snapshot of 1 item, got %d", len(snapshot))
	}

	if err := list.Add(listItem("b")); !errors.Is(err, ErrQueueRunning) {
		t.Errorf("Expected ErrQueueRunning on add, got %v", err)
	}
	if err := list.Clear(); !errors.Is(err, ErrQueueRunning) {
		t.Errorf("Expected ErrQueueRunning on clear, got %v", err)
	}
	if _, err := list.BeginRun(); !errors.Is(err, ErrQueueRunning) {
		t.Errorf("Expected ErrQueueRunning on second run, got %v", err)
	}

	list.EndRun()
	if err := list.Add(listItem("b")); err != nil {
		t.Errorf("Expected add to work after run, got %v", err)
	}
}
