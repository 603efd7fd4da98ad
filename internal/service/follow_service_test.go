package service

import (
	"errors"
	"testing"
)

func TestFollowServiceFollowAndUnfollow(t *testing.T) {
	gdb, cleanup := setupPlatformTestDB(t, "follow")
	defer cleanup()

	svc := NewFollowService(gdb, nil)
	alice := seedUser(t, gdb, "alice", "alice@example.com")
	bob := seedUser(t, gdb, "bob", "bob@example.com")

	if err := svc.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.Follow(alice.ID, bob.ID); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}

	if err := svc.Unfollow(alice.ID, bob.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := svc.Unfollow(alice.ID, bob.ID); !errors.Is(err, ErrNotFollowing) {
		t.Fatalf("expected ErrNotFollowing, got %v", err)
	}
}

func TestFollowServiceRejectsSelfFollow(t *testing.T) {
	gdb, cleanup := setupPlatformTestDB(t, "follow-self")
	defer cleanup()

	svc := NewFollowService(gdb, nil)
	alice := seedUser(t, gdb, "alice", "alice@example.com")

	if err := svc.Follow(alice.ID, alice.ID); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestFollowServiceMissingFollowee(t *testing.T) {
	gdb, cleanup := setupPlatformTestDB(t, "follow-missing")
	defer cleanup()

	svc := NewFollowService(gdb, nil)
	alice := seedUser(t, gdb, "alice", "alice@example.com")

	err := svc.Follow(alice.ID, 999)
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if nfe.Resource != "user" {
		t.Fatalf("expected user resource, got %q", nfe.Resource)
	}
}

func TestFollowServiceFollowersAndFollowing(t *testing.T) {
	gdb, cleanup := setupPlatformTestDB(t, "follow-list")
	defer cleanup()

	svc := NewFollowService(gdb, nil)
	alice := seedUser(t, gdb, "alice", "alice@example.com")
	bob := seedUser(t, gdb, "bob", "bob@example.com")
	carol := seedUser(t, gdb, "carol", "carol@example.com")

	if err := svc.Follow(alice.ID, carol.ID); err != nil {
		t.Fatalf("alice follows carol: %v", err)
	}
	if err := svc.Follow(bob.ID, carol.ID); err != nil {
		t.Fatalf("bob follows carol: %v", err)
	}
	if err := svc.Follow(carol.ID, alice.ID); err != nil {
		t.Fatalf("carol follows alice: %v", err)
	}

	followers, err := svc.Followers(carol.ID)
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("expected 2 followers of carol, got %d", len(followers))
	}

	following, err := svc.Following(carol.ID)
	if err != nil {
		t.Fatalf("list following: %v", err)
	}
	if len(following) != 1 || following[0].Username != "alice" {
		t.Fatalf("expected carol following alice, got %+v", following)
	}
}
