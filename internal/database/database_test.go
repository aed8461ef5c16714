package database_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/database/dbtest"
	"github.com/thereayou/echo-messenger/internal/models"
)

// t0 позже создания общей комнаты, чтобы она не попадала в обновления
var t0 = time.Now().UTC().Add(time.Hour).Truncate(time.Second)

func createUser(t *testing.T, db *database.Database, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hash", CreatedAt: t0}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createConversation(t *testing.T, db *database.Database, creator *models.User, members ...*models.User) *models.Conversation {
	t.Helper()
	ids := []string{creator.ID}
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	conversation := &models.Conversation{
		CreatorID: &creator.ID,
		MemberKey: models.MemberKey(ids),
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	require.NoError(t, db.CreateConversation(context.Background(), conversation, ids))
	return conversation
}

func TestDatabase_CreateUser(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	t.Run("should join the global conversation on signup", func(t *testing.T) {
		req := require.New(t)
		alice := createUser(t, db, "Alice")

		req.Equal("alice", alice.UsernameLowercase)
		global, err := db.GetConversation(ctx, models.GlobalConversationID)
		req.NoError(err)
		req.True(global.HasMember(alice.ID))
		req.Empty(global.MemberKey)
	})

	t.Run("should reject a username differing only by case", func(t *testing.T) {
		err := db.CreateUser(ctx, &models.User{Username: "ALICE", PasswordHash: "hash", CreatedAt: t0})
		require.ErrorIs(t, err, database.ErrDuplicate)
	})

	t.Run("should find users case-insensitively", func(t *testing.T) {
		req := require.New(t)
		createUser(t, db, "Bob")

		user, err := db.FindUserByUsername(ctx, "aLiCe")
		req.NoError(err)
		req.Equal("Alice", user.Username)

		users, err := db.FindUsersByUsernames(ctx, []string{"BOB", "alice", "nobody"})
		req.NoError(err)
		req.Len(users, 2)

		_, err = db.FindUserByUsername(ctx, "nobody")
		req.ErrorIs(err, database.ErrNotFound)
	})

	t.Run("should update the avatar", func(t *testing.T) {
		req := require.New(t)
		alice, err := db.FindUserByUsername(ctx, "alice")
		req.NoError(err)

		req.NoError(db.UpdateAvatar(ctx, alice.ID, "\U0001F600"))
		user, err := db.GetUser(ctx, alice.ID)
		req.NoError(err)
		req.Equal("\U0001F600", user.Emoji)

		req.ErrorIs(db.UpdateAvatar(ctx, "missing", "\U0001F600"), database.ErrNotFound)
	})
}

func TestDatabase_Conversations(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "Bob")
	carol := createUser(t, db, "carol")

	conversation := createConversation(t, db, alice, bob)

	t.Run("should load members ordered by username", func(t *testing.T) {
		req := require.New(t)
		got, err := db.GetConversation(ctx, conversation.ID)
		req.NoError(err)
		req.Equal([]string{"alice", "Bob"}, []string{got.Members[0].Username, got.Members[1].Username})
		req.Equal(alice.ID, *got.CreatorID)
	})

	t.Run("should find a conversation by member key", func(t *testing.T) {
		req := require.New(t)
		found, err := db.FindConversationsByMemberKey(ctx, models.MemberKey([]string{bob.ID, alice.ID}))
		req.NoError(err)
		req.Len(found, 1)
		req.Equal(conversation.ID, found[0].ID)

		found, err = db.FindConversationsByMemberKey(ctx, "")
		req.NoError(err)
		req.Empty(found, "the global room never takes part in dedup")
	})

	t.Run("should add a member and refresh the member key without touching updated_at", func(t *testing.T) {
		req := require.New(t)
		req.NoError(db.AddMember(ctx, conversation.ID, carol.ID, t0.Add(time.Hour)))

		got, err := db.GetConversation(ctx, conversation.ID)
		req.NoError(err)
		req.Len(got.Members, 3)
		req.Equal(models.MemberKey([]string{alice.ID, bob.ID, carol.ID}), got.MemberKey)
		req.True(got.UpdatedAt.Equal(t0))
	})

	t.Run("should list the user's conversations without the global room", func(t *testing.T) {
		req := require.New(t)
		other := createConversation(t, db, bob, carol)
		req.NoError(db.AppendMessage(ctx, &models.Message{ConversationID: other.ID, UserID: bob.ID, Content: "hi"}, t0.Add(time.Minute)))

		list, err := db.ListUserConversations(ctx, bob.ID)
		req.NoError(err)
		req.Len(list, 2)
		req.Equal(other.ID, list[0].ID, "latest activity first")
		req.Equal(conversation.ID, list[1].ID)
	})
}

func TestDatabase_LeaveConversation(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	conversation := createConversation(t, db, alice, bob)
	require.NoError(t, db.AppendMessage(ctx, &models.Message{ConversationID: conversation.ID, UserID: bob.ID, Content: "bye"}, t0.Add(time.Second)))

	t.Run("should keep the conversation while members remain", func(t *testing.T) {
		req := require.New(t)
		deleted, err := db.LeaveConversation(ctx, conversation.ID, alice.ID)
		req.NoError(err)
		req.False(deleted)

		got, err := db.GetConversation(ctx, conversation.ID)
		req.NoError(err)
		req.Equal([]string{bob.ID}, got.MemberIDs())
		req.Equal(models.MemberKey([]string{bob.ID}), got.MemberKey)
	})

	t.Run("should fail for a non member", func(t *testing.T) {
		_, err := db.LeaveConversation(ctx, conversation.ID, alice.ID)
		require.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("should delete the conversation with its messages when the last member leaves", func(t *testing.T) {
		req := require.New(t)
		deleted, err := db.LeaveConversation(ctx, conversation.ID, bob.ID)
		req.NoError(err)
		req.True(deleted)

		_, err = db.GetConversation(ctx, conversation.ID)
		req.ErrorIs(err, database.ErrNotFound)
		messages, err := db.MessagesSince(ctx, conversation.ID, time.Time{})
		req.NoError(err)
		req.Empty(messages)
	})
}

func TestDatabase_ConcurrentMembershipChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("should delete the conversation when the last two members leave at once", func(t *testing.T) {
		req := require.New(t)
		db := dbtest.New(t)
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")
		conversation := createConversation(t, db, alice, bob)

		var (
			wg      sync.WaitGroup
			deleted [2]bool
			errs    [2]error
		)
		for i, user := range []*models.User{alice, bob} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				deleted[i], errs[i] = db.LeaveConversation(ctx, conversation.ID, user.ID)
			}()
		}
		wg.Wait()

		req.NoError(errs[0])
		req.NoError(errs[1])
		req.True(deleted[0] != deleted[1], "exactly one leave deletes the conversation")
		_, err := db.GetConversation(ctx, conversation.ID)
		req.ErrorIs(err, database.ErrNotFound)
	})

	t.Run("should keep the member key in sync with concurrent add and leave", func(t *testing.T) {
		req := require.New(t)
		db := dbtest.New(t)
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")
		carol := createUser(t, db, "carol")
		conversation := createConversation(t, db, alice, bob)

		var wg sync.WaitGroup
		var addErr, leaveErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			addErr = db.AddMember(ctx, conversation.ID, carol.ID, t0)
		}()
		go func() {
			defer wg.Done()
			_, leaveErr = db.LeaveConversation(ctx, conversation.ID, alice.ID)
		}()
		wg.Wait()

		req.NoError(addErr)
		req.NoError(leaveErr)
		got, err := db.GetConversation(ctx, conversation.ID)
		req.NoError(err)
		req.ElementsMatch([]string{bob.ID, carol.ID}, got.MemberIDs())
		req.Equal(models.MemberKey(got.MemberIDs()), got.MemberKey)

		found, err := db.FindConversationsByMemberKey(ctx, models.MemberKey([]string{carol.ID, bob.ID}))
		req.NoError(err)
		req.Len(found, 1)
	})

	t.Run("should report a missing conversation", func(t *testing.T) {
		req := require.New(t)
		db := dbtest.New(t)
		alice := createUser(t, db, "alice")

		req.ErrorIs(db.AddMember(ctx, "missing", alice.ID, t0), database.ErrNotFound)
		_, err := db.LeaveConversation(ctx, "missing", alice.ID)
		req.ErrorIs(err, database.ErrNotFound)
	})
}

func TestDatabase_AppendMessage(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	conversation := createConversation(t, db, alice, bob)

	post := func(t *testing.T, content string, now time.Time) *models.Message {
		t.Helper()
		message := &models.Message{ConversationID: conversation.ID, UserID: alice.ID, Content: content}
		require.NoError(t, db.AppendMessage(ctx, message, now))
		return message
	}

	t.Run("should bump updated_at to the message timestamp", func(t *testing.T) {
		req := require.New(t)
		message := post(t, "first", t0.Add(time.Second))

		req.True(message.CreatedAt.Equal(t0.Add(time.Second)))
		req.Equal("alice", message.User.Username)
		got, err := db.GetConversation(ctx, conversation.ID)
		req.NoError(err)
		req.True(got.UpdatedAt.Equal(message.CreatedAt))
	})

	t.Run("should keep created_at strictly increasing when the clock stalls or steps back", func(t *testing.T) {
		req := require.New(t)
		a := post(t, "second", t0.Add(2*time.Second))
		b := post(t, "third", t0.Add(2*time.Second))
		c := post(t, "fourth", t0)

		req.True(b.CreatedAt.After(a.CreatedAt))
		req.True(c.CreatedAt.After(b.CreatedAt))
		req.True(c.CreatedAt.Equal(a.CreatedAt.Add(2 * database.StorePrecision)))
	})

	t.Run("should fail for an unknown conversation", func(t *testing.T) {
		err := db.AppendMessage(ctx, &models.Message{ConversationID: "missing", UserID: alice.ID, Content: "x"}, t0)
		require.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestDatabase_Polling(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	conversation := createConversation(t, db, alice, bob)

	var posted []*models.Message
	for i, content := range []string{"one", "two", "three"} {
		message := &models.Message{ConversationID: conversation.ID, UserID: bob.ID, Content: content}
		require.NoError(t, db.AppendMessage(ctx, message, t0.Add(time.Duration(i+1)*time.Minute)))
		posted = append(posted, message)
	}
	last := posted[len(posted)-1]

	t.Run("messages since are strictly after and ascending", func(t *testing.T) {
		req := require.New(t)
		messages, err := db.MessagesSince(ctx, conversation.ID, posted[0].CreatedAt)
		req.NoError(err)
		req.Len(messages, 2)
		req.Equal("two", messages[0].Content)
		req.Equal("three", messages[1].Content)
		req.Equal("bob", messages[0].User.Username)

		messages, err = db.MessagesSince(ctx, conversation.ID, last.CreatedAt)
		req.NoError(err)
		req.Empty(messages)
	})

	t.Run("has updates is exclusive of the boundary", func(t *testing.T) {
		req := require.New(t)
		updated, err := db.HasUpdatesSince(ctx, alice.ID, t0)
		req.NoError(err)
		req.True(updated)

		updated, err = db.HasUpdatesSince(ctx, alice.ID, last.CreatedAt)
		req.NoError(err)
		req.False(updated)
	})

	t.Run("has updates only looks at the user's conversations", func(t *testing.T) {
		req := require.New(t)
		updated, err := db.HasUpdatesSince(ctx, carol.ID, t0.Add(time.Second))
		req.NoError(err)
		req.False(updated)
	})
}
