package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fintalk/fintalk/internal/db"
	"gorm.io/gorm"
)

// backdateSchedule rewrites a post's scheduled date directly in the store so
// the sweep sees it as due without waiting.
func backdateSchedule(t *testing.T, gdb *gorm.DB, id uint, when time.Time) {
	t.Helper()
	if err := gdb.Model(&db.Post{}).Where("id = ?", id).
		UpdateColumn("scheduled_publish_date", when).Error; err != nil {
		t.Fatalf("backdate scheduled post: %v", err)
	}
}

func createScheduled(t *testing.T, svc *PostService, title string, when time.Time) *db.Post {
	t.Helper()
	input := validInput()
	input.Title = title
	input.Content = fmt.Sprintf("Scheduled body for %s with enough length.", title)
	input.Status = db.StatusScheduled
	input.ScheduledPublishDate = &when
	post, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create scheduled post: %v", err)
	}
	return post
}

func TestPublishDuePostsPromotesOnlyDuePosts(t *testing.T) {
	gdb, cleanup := setupPostServiceTestDB(t)
	defer cleanup()

	svc := NewPostService(gdb, nil)

	future := time.Now().Add(time.Hour)
	due := createScheduled(t, svc, "Due Scheduled Post", future)
	notDue := createScheduled(t, svc, "Not Yet Due Post", future)
	backdateSchedule(t, gdb, due.ID, time.Now().Add(-time.Minute))

	svc.PublishDuePosts()

	var reloaded db.Post
	if err := gdb.First(&reloaded, due.ID).Error; err != nil {
		t.Fatalf("reload due post: %v", err)
	}
	if reloaded.Status != db.StatusPublished || reloaded.ScheduledPublishDate != nil {
		t.Fatalf("expected due post published without date, got %+v", reloaded)
	}

	var reloadedNotDue db.Post
	if err := gdb.First(&reloadedNotDue, notDue.ID).Error; err != nil {
		t.Fatalf("reload not-due post: %v", err)
	}
	if reloadedNotDue.Status != db.StatusScheduled || reloadedNotDue.ScheduledPublishDate == nil {
		t.Fatalf("expected not-due post untouched, got %+v", reloadedNotDue)
	}
}

func TestPublishDuePostsIsIdempotent(t *testing.T) {
	gdb, cleanup := setupPostServiceTestDB(t)
	defer cleanup()

	svc := NewPostService(gdb, nil)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	post := createScheduled(t, svc, "Repeated Sweep Target", time.Now().Add(time.Hour))
	backdateSchedule(t, gdb, post.ID, time.Now().Add(-time.Minute))

	svc.PublishDuePosts()
	svc.PublishDuePosts()

	if len(notifier.published) != 1 {
		t.Fatalf("expected a single notification, got %v", notifier.published)
	}

	var reloaded db.Post
	if err := gdb.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.Status != db.StatusPublished {
		t.Fatalf("expected post to stay published, got %q", reloaded.Status)
	}
}

func TestPublishDuePostsIgnoresDraftsWithStaleDates(t *testing.T) {
	gdb, cleanup := setupPostServiceTestDB(t)
	defer cleanup()

	svc := NewPostService(gdb, nil)

	draft, err := svc.Create(validInput())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	// 直接写入一个过期日期,绕过校验,模拟历史脏数据
	backdateSchedule(t, gdb, draft.ID, time.Now().Add(-time.Hour))

	svc.PublishDuePosts()

	var reloaded db.Post
	if err := gdb.First(&reloaded, draft.ID).Error; err != nil {
		t.Fatalf("reload draft: %v", err)
	}
	if reloaded.Status != db.StatusDraft {
		t.Fatalf("expected draft untouched by sweep, got %q", reloaded.Status)
	}
}

func TestRunPublishSweeperStopsOnCancel(t *testing.T) {
	gdb, cleanup := setupPostServiceTestDB(t)
	defer cleanup()

	svc := NewPostService(gdb, nil)
	post := createScheduled(t, svc, "Sweeper Loop Target", time.Now().Add(time.Hour))
	backdateSchedule(t, gdb, post.ID, time.Now().Add(-time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		svc.RunPublishSweeper(ctx, 20*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	var reloaded db.Post
	if err := gdb.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.Status != db.StatusPublished {
		t.Fatalf("expected sweeper to publish due post, got %q", reloaded.Status)
	}
}
