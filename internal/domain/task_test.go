package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	deadline := time.Now().UTC().Add(24 * time.Hour)

	task, err := NewTask("Write report", "Quarterly numbers", &deadline, &userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if task.Title != "Write report" {
		t.Errorf("Expected title %q, got %q", "Write report", task.Title)
	}

	if task.Status != TaskStatusNew {
		t.Errorf("Expected status %s, got %s", TaskStatusNew, task.Status)
	}

	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if task.UpdatedAt != nil {
		t.Error("Expected nil UpdatedAt before first mutation")
	}

	if task.UserID == nil || *task.UserID != userID {
		t.Errorf("Expected user ID %s, got %v", userID, task.UserID)
	}

	if task.IsDeleted {
		t.Error("Expected new task to not be deleted")
	}
}

func TestNewTaskUnassigned(t *testing.T) {
	t.Parallel()
	task, err := NewTask("Orphan task", "", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.UserID != nil {
		t.Errorf("Expected nil user ID, got %v", task.UserID)
	}

	if task.Deadline != nil {
		t.Errorf("Expected nil deadline, got %v", task.Deadline)
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	cases := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(task *Task) {}, nil},
		{"empty ID", func(task *Task) { task.ID = uuid.Nil }, ErrTaskIDEmpty},
		{"empty title", func(task *Task) { task.Title = "  " }, ErrTaskTitleEmpty},
		{
			"title too long",
			func(task *Task) { task.Title = strings.Repeat("x", MaxTaskTitleLength+1) },
			ErrTaskTitleTooLong,
		},
		{
			"description too long",
			func(task *Task) { task.Description = strings.Repeat("x", MaxTaskDescriptionLength+1) },
			ErrTaskDescriptionTooLong,
		},
		{"unknown status", func(task *Task) { task.Status = "archived" }, ErrInvalidTaskStatus},
		// A persisted task whose deadline has elapsed is still valid;
		// only NewTask and Apply reject past deadlines.
		{"elapsed deadline", func(task *Task) { task.Deadline = &past }, nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			task := Task{
				ID:        uuid.New(),
				Title:     "Valid task",
				Status:    TaskStatusNew,
				CreatedAt: time.Now().UTC(),
				Deadline:  &future,
			}
			tc.mutate(&task)

			err := task.Validate()
			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTaskDeadlineCheckedOnEntry(t *testing.T) {
	t.Parallel()
	past := time.Now().UTC().Add(-time.Hour)

	if _, err := NewTask("Late already", "", &past, nil); err != ErrTaskDeadlinePast {
		t.Errorf("Expected error %v, got %v", ErrTaskDeadlinePast, err)
	}

	task, err := NewTask("On time", "", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := task.Apply("On time", "", &past, nil); err != ErrTaskDeadlinePast {
		t.Errorf("Expected error %v, got %v", ErrTaskDeadlinePast, err)
	}

	if task.Deadline != nil {
		t.Errorf("Expected deadline unchanged after failed apply, got %v", task.Deadline)
	}
}

func TestOverdueTaskStaysMutable(t *testing.T) {
	t.Parallel()
	past := time.Now().UTC().Add(-time.Hour)

	task := Task{
		ID:        uuid.New(),
		Title:     "Overdue",
		Status:    TaskStatusInProgress,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
		Deadline:  &past,
	}

	if err := task.ChangeStatus(TaskStatusCompleted); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := task.Validate(); err != nil {
		t.Errorf("Expected overdue task to stay valid, got %v", err)
	}
}

func TestTaskApply(t *testing.T) {
	t.Parallel()
	task, err := NewTask("Before", "old", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID := uuid.New()
	deadline := time.Now().UTC().Add(48 * time.Hour)

	if err := task.Apply("After", "new", &deadline, &userID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Title != "After" || task.Description != "new" {
		t.Errorf("Expected fields overwritten, got title=%q description=%q", task.Title, task.Description)
	}

	if task.UpdatedAt == nil {
		t.Error("Expected UpdatedAt to be stamped")
	}

	// Invalid input restores the previous field values.
	if err := task.Apply("", "", nil, nil); err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}

	if task.Title != "After" {
		t.Errorf("Expected title restored after failed apply, got %q", task.Title)
	}
}

func TestTaskChangeStatus(t *testing.T) {
	t.Parallel()
	task, err := NewTask("Status test", "", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := task.ChangeStatus(TaskStatusCompleted); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Status != TaskStatusCompleted {
		t.Errorf("Expected status %s, got %s", TaskStatusCompleted, task.Status)
	}

	if task.UpdatedAt == nil {
		t.Error("Expected UpdatedAt to be stamped")
	}

	if err := task.ChangeStatus("cancelled"); err != ErrInvalidTaskStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskStatus, err)
	}

	if task.Status != TaskStatusCompleted {
		t.Errorf("Expected status unchanged after invalid change, got %s", task.Status)
	}
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input   string
		want    TaskStatus
		wantErr bool
	}{
		{"new", TaskStatusNew, false},
		{"In_Progress", TaskStatusInProgress, false},
		{" completed ", TaskStatusCompleted, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseTaskStatus(tc.input)
		if tc.wantErr {
			if err != ErrInvalidTaskStatus {
				t.Errorf("ParseTaskStatus(%q): expected ErrInvalidTaskStatus, got %v", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTaskStatus(%q): unexpected error %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseTaskStatus(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}
