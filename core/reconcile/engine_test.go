package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"rules-service/core/database"
	"rules-service/core/dataset"
	"rules-service/core/hash"
	"rules-service/core/reconcile"
	"rules-service/core/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeSigner returns "sig:<hash>" and fails for hashes listed in failOn.
type fakeSigner struct {
	calls  int
	failOn map[string]bool
}

func (s *fakeSigner) Sign(_ context.Context, h string) (string, error) {
	s.calls++
	if s.failOn[h] {
		return "", errors.New("signer unavailable")
	}
	return "sig:" + h, nil
}

func (s *fakeSigner) PublicKey(context.Context) (string, error) { return "pub", nil }

type ReconcilerSuite struct {
	suite.Suite
	newStore func() dataset.Store

	ctx       context.Context
	store     dataset.Store
	signer    *fakeSigner
	snapshots *snapshot.Cache
	rec       *reconcile.Reconciler
}

func (s *ReconcilerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
	s.signer = &fakeSigner{failOn: map[string]bool{}}
	s.snapshots = snapshot.New(snapshot.NewMemoryRepository(), s.signer)
	s.rec = reconcile.New(s.signer, s.snapshots, nil)
}

func rule(id, country, raw string) dataset.Item {
	return dataset.NewItem(id, country, "1.0.0", raw)
}

func (s *ReconcilerSuite) keys() []string {
	list, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	out := make([]string, 0, len(list))
	for _, l := range list {
		out = append(out, l.Key().String())
	}
	return out
}

func (s *ReconcilerSuite) TestFirstSyncInsertsAndSigns() {
	a, b := rule("A", "DE", "a"), rule("B", "AT", "b")

	result, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{a, b})
	s.Require().NoError(err)
	s.Equal(2, result.Plan.Summary.Inserted)
	s.Equal(0, result.Plan.Summary.Deleted)
	s.True(result.SnapshotChanged)

	got, err := s.store.GetByKey(s.ctx, a.Key())
	s.Require().NoError(err)
	s.Equal("sig:"+a.Hash, got.Signature)

	list, err := s.snapshots.Get(s.ctx, dataset.KindRules)
	s.Require().NoError(err)
	s.Contains(list.RawData, a.Hash)
	s.Contains(list.RawData, b.Hash)
}

func (s *ReconcilerSuite) TestIdempotent() {
	fresh := []dataset.Item{rule("A", "DE", "a"), rule("B", "DE", "b")}
	_, err := s.rec.Reconcile(s.ctx, s.store, fresh)
	s.Require().NoError(err)
	before, err := s.snapshots.Get(s.ctx, dataset.KindRules)
	s.Require().NoError(err)
	calls := s.signer.calls

	result, err := s.rec.Reconcile(s.ctx, s.store, fresh)
	s.Require().NoError(err)
	s.Equal(0, result.Plan.Summary.Inserted)
	s.Equal(0, result.Plan.Summary.Deleted)
	s.Equal(2, result.Plan.Summary.Retained)
	s.False(result.SnapshotChanged)
	s.Equal(calls, s.signer.calls)

	after, err := s.snapshots.Get(s.ctx, dataset.KindRules)
	s.Require().NoError(err)
	s.Equal(before.Hash, after.Hash)
	s.Equal(before.Signature, after.Signature)
}

func (s *ReconcilerSuite) TestSetReplace() {
	a, b, c := rule("A", "DE", "a"), rule("B", "DE", "b"), rule("C", "DE", "c")
	_, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{a, b})
	s.Require().NoError(err)

	result, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{b, c})
	s.Require().NoError(err)
	s.Equal(1, result.Plan.Summary.Inserted)
	s.Equal(1, result.Plan.Summary.Deleted)
	s.Equal(1, result.Plan.Summary.Retained)
	s.True(result.SnapshotChanged)

	s.ElementsMatch([]string{b.Key().String(), c.Key().String()}, s.keys())
}

func (s *ReconcilerSuite) TestRetainedItemsKeepSignature() {
	a := rule("A", "DE", "a")
	_, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{a})
	s.Require().NoError(err)

	// A retained item is never re-signed even if the fresh copy carries a
	// different signature.
	again := a
	again.Signature = "forged"
	_, err = s.rec.Reconcile(s.ctx, s.store, []dataset.Item{again, rule("B", "DE", "b")})
	s.Require().NoError(err)

	got, err := s.store.GetByKey(s.ctx, a.Key())
	s.Require().NoError(err)
	s.Equal("sig:"+a.Hash, got.Signature)
}

func (s *ReconcilerSuite) TestEmptyFreshSetWipes() {
	_, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{rule("A", "DE", "a")})
	s.Require().NoError(err)

	result, err := s.rec.Reconcile(s.ctx, s.store, nil)
	s.Require().NoError(err)
	s.Equal(1, result.Plan.Summary.Deleted)
	s.Empty(s.keys())

	list, err := s.snapshots.Get(s.ctx, dataset.KindRules)
	s.Require().NoError(err)
	s.Equal("[]", list.RawData)
	s.Equal(hash.SumString("[]"), list.Hash)
}

func (s *ReconcilerSuite) TestHashMismatchAbortsBeforeTouchingStore() {
	a := rule("A", "DE", "a")
	_, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{a})
	s.Require().NoError(err)

	bad := rule("B", "DE", "b")
	bad.RawData = "tampered"
	_, err = s.rec.Reconcile(s.ctx, s.store, []dataset.Item{bad})
	s.ErrorIs(err, reconcile.ErrHashMismatch)

	s.Equal([]string{a.Key().String()}, s.keys())
}

func (s *ReconcilerSuite) TestSigningFailureRollsBack() {
	a, b := rule("A", "DE", "a"), rule("B", "DE", "b")
	_, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{a})
	s.Require().NoError(err)
	before, err := s.snapshots.Get(s.ctx, dataset.KindRules)
	s.Require().NoError(err)

	s.signer.failOn[b.Hash] = true
	_, err = s.rec.Reconcile(s.ctx, s.store, []dataset.Item{b})
	s.Error(err)

	// Neither the delete of A nor the insert of B became visible
	s.Equal([]string{a.Key().String()}, s.keys())
	after, err := s.snapshots.Get(s.ctx, dataset.KindRules)
	s.Require().NoError(err)
	s.Equal(before.Hash, after.Hash)
}

func (s *ReconcilerSuite) TestDuplicateKeysFirstWins() {
	first := rule("A", "DE", "same")
	second := rule("A-copy", "de", "same")

	result, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{first, second})
	s.Require().NoError(err)
	s.Equal(1, result.Plan.Summary.Inserted)
	s.Equal(1, result.Plan.Summary.Duplicates)

	got, err := s.store.GetByKey(s.ctx, first.Key())
	s.Require().NoError(err)
	s.Equal("A", got.Identifier)
}

func (s *ReconcilerSuite) TestSameHashDifferentCountries() {
	de, at := rule("A", "DE", "shared"), rule("A", "AT", "shared")

	result, err := s.rec.Reconcile(s.ctx, s.store, []dataset.Item{de, at})
	s.Require().NoError(err)
	s.Equal(2, result.Plan.Summary.Inserted)
	s.Len(s.keys(), 2)
}

func (s *ReconcilerSuite) TestDryRun() {
	result, err := s.rec.ReconcileWithOptions(s.ctx, s.store, []dataset.Item{rule("A", "DE", "a")}, reconcile.ReconcileOptions{DryRun: true})
	s.Require().NoError(err)
	s.True(result.DryRun)
	s.Equal(1, result.Plan.Summary.Inserted)
	s.Require().Len(result.Plan.Actions, 1)
	s.Equal(reconcile.ActionInsert, result.Plan.Actions[0].Type)

	s.Empty(s.keys())
	_, err = s.snapshots.Get(s.ctx, dataset.KindRules)
	s.ErrorIs(err, dataset.ErrNotFound)
	s.Equal(0, s.signer.calls)
}

func (s *ReconcilerSuite) TestSave() {
	a := rule("A", "DE", "a")
	s.Require().NoError(s.rec.Save(s.ctx, s.store, a))

	got, err := s.store.GetByKey(s.ctx, a.Key())
	s.Require().NoError(err)
	s.Equal("sig:"+a.Hash, got.Signature)

	list, err := s.snapshots.Get(s.ctx, dataset.KindRules)
	s.Require().NoError(err)
	s.Contains(list.RawData, a.Hash)

	bad := rule("B", "DE", "b")
	bad.Hash = hash.SumString("other")
	s.ErrorIs(s.rec.Save(s.ctx, s.store, bad), reconcile.ErrHashMismatch)
}

func TestReconcilerMemoryStore(t *testing.T) {
	suite.Run(t, &ReconcilerSuite{newStore: func() dataset.Store {
		return dataset.NewMemoryStore(dataset.KindRules)
	}})
}

func TestReconcilerGormStore(t *testing.T) {
	suite.Run(t, &ReconcilerSuite{newStore: func() dataset.Store {
		db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		store := dataset.NewGormStore(db, dataset.KindRules)
		if err := store.Migrate(context.Background()); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}
		return store
	}})
}

func TestReconcilerWithoutSigner(t *testing.T) {
	ctx := context.Background()
	store := dataset.NewMemoryStore(dataset.KindValueSets)
	snapshots := snapshot.New(snapshot.NewMemoryRepository(), nil)
	rec := reconcile.New(nil, snapshots, nil)

	vs := dataset.NewItem("vs-1", "", "", `{"valueSetId":"vs-1"}`)
	_, err := rec.Reconcile(ctx, store, []dataset.Item{vs})
	require.NoError(t, err)

	got, err := store.GetByKey(ctx, dataset.Key{Hash: vs.Hash})
	require.NoError(t, err)
	assert.Empty(t, got.Signature)

	list, err := snapshots.Get(ctx, dataset.KindValueSets)
	require.NoError(t, err)
	assert.Empty(t, list.Signature)
	assert.JSONEq(t, `[{"id":"vs-1","hash":"`+vs.Hash+`"}]`, list.RawData)
}
