package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"newsroom/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]domain.User
	nextID  uint
	getErr  error
	byEmail int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Email] = *user
	return nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEmail++
	if r.getErr != nil {
		return nil, r.getErr
	}
	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, email string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return domain.ErrNotFound
	}
	user.Role = role
	r.users[email] = user
	return nil
}

// stubCache is a working read-through cache over a plain map, recording
// which keys were invalidated.
type stubCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (c *stubCache) GetOrCompute(ctx context.Context, key string, _ time.Duration, produce func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	value, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return value, nil
	}
	fresh, err := produce(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = fresh
	c.mu.Unlock()
	return fresh, nil
}

func (c *stubCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.invalidated = append(c.invalidated, key)
	}
	return nil
}

type stubIssuer struct {
	token string
	last  domain.User
}

func (i *stubIssuer) Issue(user domain.User) (string, error) {
	i.last = user
	return i.token, nil
}

func TestUserService_RegisterHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, newStubCache(), &stubIssuer{}, time.Hour)

	user, err := svc.Register(context.Background(), "User@Example.com", "testpassword")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("testpassword")); err != nil {
		t.Fatalf("expected stored hash to match password: %v", err)
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, newStubCache(), &stubIssuer{}, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@example.com", "testpassword"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "user@example.com", "otherpassword"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	repo := newStubUserRepo()
	issuer := &stubIssuer{token: "signed-token"}
	svc := NewUserService(repo, newStubCache(), issuer, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@example.com", "testpassword"); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.Login(ctx, "user@example.com", "testpassword")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "signed-token" {
		t.Fatalf("expected issued token, got %q", token)
	}
	if issuer.last.Email != "user@example.com" {
		t.Fatalf("expected token issued for user, got %s", issuer.last.Email)
	}

	if _, err := svc.Login(ctx, "user@example.com", "wrongpassword"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	// Unknown email is indistinguishable from a wrong password.
	if _, err := svc.Login(ctx, "ghost@example.com", "testpassword"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestUserService_LoginExternalAccount(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["oauth@example.com"] = domain.User{
		ID: 1, Email: "oauth@example.com", External: true, Role: domain.RoleUser,
	}
	svc := NewUserService(repo, newStubCache(), &stubIssuer{}, time.Hour)

	if _, err := svc.Login(context.Background(), "oauth@example.com", "anything"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for external account, got %v", err)
	}
}

func TestUserService_ProfileIsCached(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, newStubCache(), &stubIssuer{}, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@example.com", "testpassword"); err != nil {
		t.Fatalf("register: %v", err)
	}
	lookupsAfterRegister := repo.byEmail

	for i := 0; i < 3; i++ {
		view, err := svc.Profile(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("profile %d: %v", i, err)
		}
		if view.Email != "user@example.com" || view.Role != domain.RoleUser {
			t.Fatalf("unexpected profile %+v", view)
		}
	}
	if repo.byEmail != lookupsAfterRegister+1 {
		t.Fatalf("expected a single store lookup across cached reads, got %d", repo.byEmail-lookupsAfterRegister)
	}
}

func TestUserService_ProfileUnknownUser(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), newStubCache(), &stubIssuer{}, time.Hour)
	if _, err := svc.Profile(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserService_PromoteInvalidatesProfile(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubCache()
	svc := NewUserService(repo, cache, &stubIssuer{}, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@example.com", "testpassword"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Profile(ctx, "user@example.com"); err != nil {
		t.Fatalf("prime profile cache: %v", err)
	}

	promoted, err := svc.Promote(ctx, "user@example.com", domain.RoleEditor)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.Role != domain.RoleEditor {
		t.Fatalf("expected editor, got %s", promoted.Role)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "profile:user@example.com" {
		t.Fatalf("expected profile key invalidated, got %v", cache.invalidated)
	}

	// A read after the acknowledged promotion sees the new role.
	view, err := svc.Profile(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("profile after promote: %v", err)
	}
	if view.Role != domain.RoleEditor {
		t.Fatalf("expected refreshed role editor, got %s", view.Role)
	}
}

func TestUserService_PromoteUnknownUser(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), newStubCache(), &stubIssuer{}, time.Hour)
	if _, err := svc.Promote(context.Background(), "ghost@example.com", domain.RoleAdmin); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Email lookups and cache keys use one canonical casing no matter how the
// caller wrote the address.
func TestUserService_EmailCaseFolding(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubCache()
	svc := NewUserService(repo, cache, &stubIssuer{}, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@example.com", "testpassword"); err != nil {
		t.Fatalf("register: %v", err)
	}
	lookupsAfterRegister := repo.byEmail

	if _, err := svc.Profile(ctx, " User@Example.COM"); err != nil {
		t.Fatalf("mixed-case profile: %v", err)
	}
	if _, err := svc.Profile(ctx, "user@example.com"); err != nil {
		t.Fatalf("lower-case profile: %v", err)
	}
	if repo.byEmail != lookupsAfterRegister+1 {
		t.Fatalf("expected both spellings to share one cache entry, got %d lookups", repo.byEmail-lookupsAfterRegister)
	}

	promoted, err := svc.Promote(ctx, "USER@example.com", domain.RoleEditor)
	if err != nil {
		t.Fatalf("mixed-case promote: %v", err)
	}
	if promoted.Role != domain.RoleEditor {
		t.Fatalf("expected editor, got %s", promoted.Role)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "profile:user@example.com" {
		t.Fatalf("expected canonical profile key invalidated, got %v", cache.invalidated)
	}

	view, err := svc.Profile(ctx, "User@example.com")
	if err != nil {
		t.Fatalf("profile after promote: %v", err)
	}
	if view.Role != domain.RoleEditor {
		t.Fatalf("expected refreshed role editor, got %s", view.Role)
	}
}
