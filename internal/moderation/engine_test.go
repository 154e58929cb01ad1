package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"annuaire/internal/db"
	"annuaire/internal/models"
)

// fakeStore mimics the conditional-update semantics of the real store.
type fakeStore struct {
	pendings map[uuid.UUID]*models.PendingDentist
	dentists map[uuid.UUID]*models.Dentist
	users    map[string]*models.User

	createErr        error
	createDupes      int // number of CreateDentist calls to fail with ErrDuplicateSlug
	markApprovedErr  error
	createCalls      int
	ownershipUpdates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pendings: make(map[uuid.UUID]*models.PendingDentist),
		dentists: make(map[uuid.UUID]*models.Dentist),
		users:    make(map[string]*models.User),
	}
}

func (f *fakeStore) addPending(sub *models.PendingDentist) *models.PendingDentist {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.Status == "" {
		sub.Status = models.StatusPending
	}
	f.pendings[sub.ID] = sub
	return sub
}

func (f *fakeStore) addDentist(dent *models.Dentist) *models.Dentist {
	if dent.ID == uuid.Nil {
		dent.ID = uuid.New()
	}
	f.dentists[dent.ID] = dent
	return dent
}

func (f *fakeStore) GetPendingDentistByID(_ context.Context, id uuid.UUID) (*models.PendingDentist, error) {
	sub, ok := f.pendings[id]
	if !ok {
		return nil, db.ErrSubmissionNotFound
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeStore) GetDentistByID(_ context.Context, id uuid.UUID) (*models.Dentist, error) {
	dent, ok := f.dentists[id]
	if !ok {
		return nil, db.ErrDentistNotFound
	}
	copied := *dent
	return &copied, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) CreateDentist(_ context.Context, dent *models.Dentist) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if f.createDupes > 0 {
		f.createDupes--
		return db.ErrDuplicateSlug
	}
	for _, existing := range f.dentists {
		if existing.Slug == dent.Slug {
			return db.ErrDuplicateSlug
		}
	}
	dent.ID = uuid.New()
	dent.CreatedAt = time.Now()
	f.dentists[dent.ID] = dent
	return nil
}

func (f *fakeStore) UpdateDentistOwnership(_ context.Context, id uuid.UUID, email string, ownerUserID *uuid.UUID) error {
	dent, ok := f.dentists[id]
	if !ok {
		return db.ErrDentistNotFound
	}
	f.ownershipUpdates++
	dent.Email = &email
	if ownerUserID != nil {
		dent.OwnerUserID = ownerUserID
	}
	return nil
}

func (f *fakeStore) MarkApproved(_ context.Context, id uuid.UUID, resolution string, dentistID uuid.UUID, reviewerID *uuid.UUID) error {
	if f.markApprovedErr != nil {
		return f.markApprovedErr
	}
	sub, ok := f.pendings[id]
	if !ok {
		return db.ErrSubmissionNotFound
	}
	if sub.Status != models.StatusPending {
		return db.ErrAlreadyResolved
	}
	now := time.Now()
	sub.Status = models.StatusApproved
	sub.Resolution = &resolution
	sub.ResolvedDentistID = &dentistID
	sub.ReviewedBy = reviewerID
	sub.ReviewedAt = &now
	return nil
}

func (f *fakeStore) MarkRejected(_ context.Context, id uuid.UUID, reason *string, reviewerID *uuid.UUID) error {
	sub, ok := f.pendings[id]
	if !ok {
		return db.ErrSubmissionNotFound
	}
	if sub.Status != models.StatusPending {
		return db.ErrAlreadyResolved
	}
	now := time.Now()
	sub.Status = models.StatusRejected
	sub.RejectionReason = reason
	sub.ReviewedBy = reviewerID
	sub.ReviewedAt = &now
	return nil
}

// fakeNotifier records notification calls.
type fakeNotifier struct {
	approved []uuid.UUID
	rejected []string
	linked   []uuid.UUID
}

func (f *fakeNotifier) NotifySubmissionApproved(_ context.Context, sub *models.PendingDentist, _ *models.Dentist) {
	f.approved = append(f.approved, sub.ID)
}

func (f *fakeNotifier) NotifySubmissionRejected(_ context.Context, _ *models.PendingDentist, reason string) {
	f.rejected = append(f.rejected, reason)
}

func (f *fakeNotifier) NotifySubmissionLinked(_ context.Context, sub *models.PendingDentist, _ *models.Dentist) {
	f.linked = append(f.linked, sub.ID)
}

func strPtr(s string) *string { return &s }

func newSubmission() *models.PendingDentist {
	return &models.PendingDentist{
		Name:  "Dr. Amina Tazi",
		City:  "Fès",
		Phone: "+212600000000",
		Email: strPtr("amina@example.ma"),
	}
}

func TestApprove_PublishesListing(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := New(store, notifier)
	sub := store.addPending(newSubmission())
	reviewer := uuid.New()

	dent, err := engine.Approve(context.Background(), sub.ID, &reviewer)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if dent.Verified {
		t.Error("Approve() published a verified listing; approval must not auto-verify")
	}
	if !strings.HasPrefix(dent.Slug, "dr-amina-tazi-") {
		t.Errorf("Approve() slug = %q, want prefix %q", dent.Slug, "dr-amina-tazi-")
	}
	if dent.Email == nil || *dent.Email != "amina@example.ma" {
		t.Errorf("Approve() email = %v, want submission email", dent.Email)
	}
	if len(store.dentists) != 1 {
		t.Errorf("Approve() created %d listings, want 1", len(store.dentists))
	}

	stored := store.pendings[sub.ID]
	if stored.Status != models.StatusApproved {
		t.Errorf("submission status = %q, want %q", stored.Status, models.StatusApproved)
	}
	if stored.Resolution == nil || *stored.Resolution != models.ResolutionCreated {
		t.Errorf("submission resolution = %v, want %q", stored.Resolution, models.ResolutionCreated)
	}
	if stored.ResolvedDentistID == nil || *stored.ResolvedDentistID != dent.ID {
		t.Error("submission does not reference the created listing")
	}
	if stored.ReviewedBy == nil || *stored.ReviewedBy != reviewer {
		t.Error("submission does not record the reviewer")
	}
	if len(notifier.approved) != 1 {
		t.Errorf("approval notifications = %d, want 1", len(notifier.approved))
	}
}

func TestApprove_AlreadyResolved(t *testing.T) {
	for _, status := range []string{models.StatusApproved, models.StatusRejected} {
		t.Run(status, func(t *testing.T) {
			store := newFakeStore()
			engine := New(store, &fakeNotifier{})
			sub := newSubmission()
			sub.Status = status
			store.addPending(sub)

			_, err := engine.Approve(context.Background(), sub.ID, nil)
			if !errors.Is(err, db.ErrAlreadyResolved) {
				t.Errorf("Approve() error = %v, want ErrAlreadyResolved", err)
			}
			if len(store.dentists) != 0 {
				t.Errorf("Approve() on resolved submission created %d listings, want 0", len(store.dentists))
			}
		})
	}
}

func TestApprove_NotFound(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})

	_, err := engine.Approve(context.Background(), uuid.New(), nil)
	if !errors.Is(err, db.ErrSubmissionNotFound) {
		t.Errorf("Approve() error = %v, want ErrSubmissionNotFound", err)
	}
}

func TestApprove_InsertFailureLeavesSubmissionPending(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := New(store, notifier)
	sub := store.addPending(newSubmission())
	store.createErr = errors.New("connection reset")

	_, err := engine.Approve(context.Background(), sub.ID, nil)
	if err == nil {
		t.Fatal("Approve() expected error when the insert fails")
	}
	if store.pendings[sub.ID].Status != models.StatusPending {
		t.Error("insert failure must not change the submission status")
	}
	if len(notifier.approved) != 0 {
		t.Error("no notification should be sent on failure")
	}
}

func TestApprove_StatusUpdateFailureReported(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := New(store, notifier)
	sub := store.addPending(newSubmission())
	store.markApprovedErr = errors.New("connection reset")

	_, err := engine.Approve(context.Background(), sub.ID, nil)
	if err == nil {
		t.Fatal("Approve() must report failure when the status update fails")
	}
	// The inserted listing stays behind as a detectable inconsistency.
	if len(store.dentists) != 1 {
		t.Errorf("orphaned listings = %d, want 1", len(store.dentists))
	}
	if len(notifier.approved) != 0 {
		t.Error("no notification should be sent on failure")
	}
}

func TestApprove_SlugCollisionRetries(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})
	sub := store.addPending(newSubmission())
	store.createDupes = 2

	dent, err := engine.Approve(context.Background(), sub.ID, nil)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if store.createCalls != 3 {
		t.Errorf("CreateDentist calls = %d, want 3 (two collisions then success)", store.createCalls)
	}
	if !strings.HasPrefix(dent.Slug, "dr-amina-tazi-") {
		t.Errorf("retried slug = %q, want same base", dent.Slug)
	}
}

func TestApprove_DistinctSlugsForSameName(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})
	first := store.addPending(newSubmission())
	second := store.addPending(newSubmission())

	d1, err := engine.Approve(context.Background(), first.ID, nil)
	if err != nil {
		t.Fatalf("first Approve() error = %v", err)
	}
	d2, err := engine.Approve(context.Background(), second.ID, nil)
	if err != nil {
		t.Fatalf("second Approve() error = %v", err)
	}

	if d1.Slug == d2.Slug {
		t.Errorf("identical submissions produced the same slug %q", d1.Slug)
	}
}

func TestReject_StoresReasonVerbatim(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := New(store, notifier)
	sub := store.addPending(newSubmission())
	reviewer := uuid.New()

	if err := engine.Reject(context.Background(), sub.ID, "Numéro introuvable", &reviewer); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	stored := store.pendings[sub.ID]
	if stored.Status != models.StatusRejected {
		t.Errorf("status = %q, want %q", stored.Status, models.StatusRejected)
	}
	if stored.RejectionReason == nil || *stored.RejectionReason != "Numéro introuvable" {
		t.Errorf("rejection reason = %v, want verbatim text", stored.RejectionReason)
	}
	if len(store.dentists) != 0 {
		t.Errorf("Reject() created %d listings, want 0", len(store.dentists))
	}
	if len(notifier.rejected) != 1 || notifier.rejected[0] != "Numéro introuvable" {
		t.Errorf("rejection notifications = %v, want the reason passed through", notifier.rejected)
	}
}

func TestReject_EmptyReasonStoredAsNull(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})
	sub := store.addPending(newSubmission())

	if err := engine.Reject(context.Background(), sub.ID, "", nil); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if store.pendings[sub.ID].RejectionReason != nil {
		t.Errorf("empty reason should be stored as null, got %v", *store.pendings[sub.ID].RejectionReason)
	}
}

func TestReject_AlreadyResolved(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})
	sub := newSubmission()
	sub.Status = models.StatusRejected
	sub.RejectionReason = strPtr("original reason")
	store.addPending(sub)

	err := engine.Reject(context.Background(), sub.ID, "another reason", nil)
	if !errors.Is(err, db.ErrAlreadyResolved) {
		t.Errorf("Reject() error = %v, want ErrAlreadyResolved", err)
	}
	if *store.pendings[sub.ID].RejectionReason != "original reason" {
		t.Error("terminal submission was mutated")
	}
}

func TestLink_RequiresEmail(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})
	sub := newSubmission()
	sub.Email = nil
	store.addPending(sub)
	target := store.addDentist(&models.Dentist{Name: "Cabinet El Fassi", Slug: "cabinet-el-fassi-a1b2c", Email: strPtr("old@example.ma")})

	_, err := engine.Link(context.Background(), sub.ID, target.ID, nil)
	if !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("Link() error = %v, want ErrMissingEmail", err)
	}
	if store.pendings[sub.ID].Status != models.StatusPending {
		t.Error("failed link must leave the submission pending")
	}
	if *store.dentists[target.ID].Email != "old@example.ma" {
		t.Error("failed link must leave the target listing unchanged")
	}
}

func TestLink_OverwritesEmailAndResolves(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := New(store, notifier)
	sub := store.addPending(newSubmission())
	target := store.addDentist(&models.Dentist{Name: "Cabinet El Fassi", Slug: "cabinet-el-fassi-a1b2c", Email: strPtr("old@example.ma")})
	owner := &models.User{ID: uuid.New(), Email: "amina@example.ma"}
	store.users[owner.Email] = owner

	dent, err := engine.Link(context.Background(), sub.ID, target.ID, nil)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if dent.ID != target.ID {
		t.Error("Link() should resolve to the existing listing")
	}

	stored := store.dentists[target.ID]
	if stored.Email == nil || *stored.Email != "amina@example.ma" {
		t.Errorf("target email = %v, want submission email", stored.Email)
	}
	if stored.OwnerUserID == nil || *stored.OwnerUserID != owner.ID {
		t.Errorf("target owner = %v, want account matched by email", stored.OwnerUserID)
	}

	pending := store.pendings[sub.ID]
	if pending.Status != models.StatusApproved {
		t.Errorf("submission status = %q, want %q", pending.Status, models.StatusApproved)
	}
	if pending.Resolution == nil || *pending.Resolution != models.ResolutionLinked {
		t.Errorf("submission resolution = %v, want %q", pending.Resolution, models.ResolutionLinked)
	}
	if len(store.dentists) != 1 {
		t.Errorf("Link() created %d extra listings, want none", len(store.dentists)-1)
	}
	if len(notifier.linked) != 1 {
		t.Errorf("link notifications = %d, want 1", len(notifier.linked))
	}
}

func TestLink_PrefersSubmitterAccount(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})
	submitter := uuid.New()
	sub := newSubmission()
	sub.SubmittedBy = &submitter
	store.addPending(sub)
	target := store.addDentist(&models.Dentist{Name: "Cabinet El Fassi", Slug: "cabinet-el-fassi-a1b2c"})

	if _, err := engine.Link(context.Background(), sub.ID, target.ID, nil); err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	got := store.dentists[target.ID].OwnerUserID
	if got == nil || *got != submitter {
		t.Errorf("owner = %v, want the submitting account %v", got, submitter)
	}
}

func TestLink_TargetNotFound(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})
	sub := store.addPending(newSubmission())

	_, err := engine.Link(context.Background(), sub.ID, uuid.New(), nil)
	if !errors.Is(err, db.ErrDentistNotFound) {
		t.Errorf("Link() error = %v, want ErrDentistNotFound", err)
	}
	if store.pendings[sub.ID].Status != models.StatusPending {
		t.Error("failed link must leave the submission pending")
	}
}

func TestLink_AlreadyResolved(t *testing.T) {
	store := newFakeStore()
	engine := New(store, &fakeNotifier{})
	sub := newSubmission()
	sub.Status = models.StatusApproved
	store.addPending(sub)
	target := store.addDentist(&models.Dentist{Name: "Cabinet El Fassi", Slug: "cabinet-el-fassi-a1b2c"})

	_, err := engine.Link(context.Background(), sub.ID, target.ID, nil)
	if !errors.Is(err, db.ErrAlreadyResolved) {
		t.Errorf("Link() error = %v, want ErrAlreadyResolved", err)
	}
	if store.ownershipUpdates != 0 {
		t.Error("resolved submission must not touch the target listing")
	}
}
