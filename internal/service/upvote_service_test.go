package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaint-service/internal/model"
)

func TestUpvoteAndRemove(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := newTestEngine(store, nil, nil)
	votes := NewUpvoteService(store, store)

	complaint := fileComplaint(t, engine, resident())
	voter := resident()

	count, err := votes.Upvote(ctx, voter, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = votes.Upvote(ctx, voter, complaint.ID)
	assert.ErrorIs(t, err, ErrAlreadyUpvoted)

	count, err = votes.RemoveUpvote(ctx, voter, complaint.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = votes.RemoveUpvote(ctx, voter, complaint.ID)
	assert.ErrorIs(t, err, ErrNotUpvoted)

	_, err = votes.Upvote(ctx, voter, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = votes.Upvote(ctx, worker(uuid.New()), complaint.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestConcurrentUpvotesBothCount(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := newTestEngine(store, nil, nil)
	votes := NewUpvoteService(store, store)

	complaint := fileComplaint(t, engine, resident())

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = votes.Upvote(ctx, resident(), complaint.ID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	fresh, err := store.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.UpvoteCount)
}

func TestUpvotesRaiseEffectivePriority(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := newTestEngine(store, nil, nil)
	votes := NewUpvoteService(store, store)

	filer := resident()
	complaint, err := engine.File(ctx, filer, FileComplaintInput{
		Title: "Dim corridor light", Description: "Corridor light flickers", Category: "ELECTRICAL",
		Location: "Hostel A - Floor 3", Priority: "low",
	})
	require.NoError(t, err)

	for i := 0; i < model.UpvotesForMedium; i++ {
		_, err := votes.Upvote(ctx, resident(), complaint.ID)
		require.NoError(t, err)
	}
	fresh, err := store.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityLow, fresh.Priority)
	assert.Equal(t, model.PriorityMedium, fresh.EffectivePriority())

	for i := model.UpvotesForMedium; i < model.UpvotesForHigh; i++ {
		_, err := votes.Upvote(ctx, resident(), complaint.ID)
		require.NoError(t, err)
	}
	fresh, err = store.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, fresh.EffectivePriority())
}

func TestFindByLocation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := newTestEngine(store, nil, nil)
	votes := NewUpvoteService(store, store)

	filer := resident()
	mine := fileComplaint(t, engine, filer)

	other, err := engine.File(ctx, resident(), FileComplaintInput{
		Title: "Leaking tap", Description: "Tap drips all night", Category: "PLUMBING",
		Location: "Hostel A - Room 102",
	})
	require.NoError(t, err)

	elsewhere, err := engine.File(ctx, resident(), FileComplaintInput{
		Title: "Broken chair", Description: "Chair leg snapped", Category: "FURNITURE",
		Location: "Hostel B - Common Room",
	})
	require.NoError(t, err)

	_, err = votes.Upvote(ctx, filer, other.ID)
	require.NoError(t, err)

	_, err = votes.FindByLocation(ctx, filer, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// prefix matching is whitespace- and case-insensitive
	matches, err := votes.FindByLocation(ctx, filer, "  hostel   a ")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	byID := map[uuid.UUID]ComplaintWithVote{}
	for _, m := range matches {
		byID[m.ID] = m
	}
	assert.True(t, byID[mine.ID].Mine)
	assert.False(t, byID[mine.ID].UserUpvoted)
	assert.False(t, byID[other.ID].Mine)
	assert.True(t, byID[other.ID].UserUpvoted)
	assert.NotContains(t, byID, elsewhere.ID)

	// most-upvoted sorts first within the same location
	assert.Equal(t, other.ID, matches[0].ID)
}

func TestFindByLocationExcludesClosed(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	workerID := uuid.New()
	engine := newTestEngine(store, newFakeDirectory(workerID), nil)
	votes := NewUpvoteService(store, store)

	filer := resident()
	complaint := fileComplaint(t, engine, filer)

	_, err := engine.Validate(ctx, admin(model.AdminRoleValidator), complaint.ID, model.PriorityMedium)
	require.NoError(t, err)
	_, err = engine.Assign(ctx, admin(model.AdminRoleSupervisor), complaint.ID, AssignInput{WorkerID: workerID})
	require.NoError(t, err)
	_, err = engine.UploadProgressPhoto(ctx, worker(workerID), complaint.ID, "https://photos/p.jpg")
	require.NoError(t, err)

	matches, err := votes.FindByLocation(ctx, filer, "Hostel A")
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	_, err = engine.UploadCompletionPhoto(ctx, worker(workerID), complaint.ID, "https://photos/d.jpg")
	require.NoError(t, err)
	_, err = engine.Close(ctx, admin(model.AdminRoleWarden), complaint.ID)
	require.NoError(t, err)

	matches, err = votes.FindByLocation(ctx, filer, "Hostel A")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
