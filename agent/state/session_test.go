package state

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
)

func TestNewSessionRequiresID(t *testing.T) {
	t.Parallel()

	_, err := NewSession("", time.Now())
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestAppendTurnTruncatesHistory(t *testing.T) {
	t.Parallel()

	sess, err := NewSession("s1", time.Now())
	require.NoError(t, err)

	for i := 0; i < maxTurns+10; i++ {
		sess.AppendTurn(contract.RoleUser, fmt.Sprintf("message %d", i), time.Now())
	}
	require.Len(t, sess.Turns, maxTurns)
	require.Equal(t, fmt.Sprintf("message %d", maxTurns+9), sess.Turns[len(sess.Turns)-1].Text)
}

func TestIdentificationSurvivesTruncation(t *testing.T) {
	t.Parallel()

	sess, err := NewSession("s1", time.Now())
	require.NoError(t, err)
	require.NoError(t, sess.SetIdentified("CUST001", contract.VerificationBasic))

	for i := 0; i < maxTurns*2; i++ {
		sess.AppendTurn(contract.RoleUser, "chatter", time.Now())
	}
	snap := sess.Snapshot()
	require.Equal(t, "CUST001", snap.CustomerID)
	require.Equal(t, contract.VerificationBasic, snap.Verification)
}

func TestSetIdentifiedRejectsRebind(t *testing.T) {
	t.Parallel()

	sess, err := NewSession("s1", time.Now())
	require.NoError(t, err)

	require.NoError(t, sess.SetIdentified("CUST001", contract.VerificationBasic))
	// Re-identifying as the same customer is a no-op.
	require.NoError(t, sess.SetIdentified("CUST001", contract.VerificationBasic))
	// A different customer in the same session is refused.
	require.ErrorIs(t, sess.SetIdentified("CUST002", contract.VerificationBasic), ErrAlreadyBound)
}

func TestVerificationLevelOnlyUpgrades(t *testing.T) {
	t.Parallel()

	sess, err := NewSession("s1", time.Now())
	require.NoError(t, err)

	require.NoError(t, sess.SetIdentified("CUST001", contract.VerificationStrong))
	require.NoError(t, sess.SetIdentified("CUST001", contract.VerificationBasic))
	require.Equal(t, contract.VerificationStrong, sess.Verification)
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	sess, err := NewSession("s1", time.Now())
	require.NoError(t, err)
	sess.AppendTurn(contract.RoleUser, "hello", time.Now())

	snap := sess.Snapshot()
	snap.Turns[0].Text = "mutated"
	require.Equal(t, "hello", sess.Turns[0].Text)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrStateNotFound)

	sess, err := NewSession("s1", time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", loaded.ID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	require.ErrorIs(t, err, ErrStateNotFound)
}

func TestMemoryStoreEvictsIdleSessions(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(WithTTL(10 * time.Millisecond))
	ctx := context.Background()

	sess, err := NewSession("s1", time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sess))

	time.Sleep(30 * time.Millisecond)
	_, err = store.Load(ctx, "s1")
	require.ErrorIs(t, err, ErrStateNotFound)
}
