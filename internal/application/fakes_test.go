package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/internal/domain/repository"
	"github.com/creative-rift/arkultur-backend/pkg/hashing"
	"github.com/creative-rift/arkultur-backend/pkg/mailer"
)

// In-memory stand-ins for the postgres repositories, mirroring their
// uniqueness and not-found behavior.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*entity.Account)}
}

func (r *fakeAccountRepo) clone(a *entity.Account) *entity.Account {
	cp := *a
	if a.ConfirmToken != nil {
		v := *a.ConfirmToken
		cp.ConfirmToken = &v
	}
	if a.ResetToken != nil {
		v := *a.ResetToken
		cp.ResetToken = &v
	}
	if a.Phone != nil {
		v := *a.Phone
		cp.Phone = &v
	}
	if a.TwoFactor != nil {
		v := *a.TwoFactor
		cp.TwoFactor = &v
	}
	return &cp
}

func (r *fakeAccountRepo) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email || existing.Username == a.Username {
			return repository.ErrConflict
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.accounts[a.ID] = r.clone(a)
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		return r.clone(a), nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return r.clone(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) GetByConfirmToken(_ context.Context, token string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ConfirmToken != nil && *a.ConfirmToken == token {
			return r.clone(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) GetByResetToken(_ context.Context, token string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ResetToken != nil && *a.ResetToken == token {
			return r.clone(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.accounts {
		if existing.ID != a.ID && (existing.Email == a.Email || existing.Username == a.Username) {
			return repository.ErrConflict
		}
	}
	a.UpdatedAt = time.Now()
	r.accounts[a.ID] = r.clone(a)
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) CountAdmins(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.accounts {
		if a.Role == entity.RoleAdmin {
			n++
		}
	}
	return n, nil
}

var _ repository.AccountRepository = (*fakeAccountRepo)(nil)

type fakeTokenRepo struct {
	mu       sync.Mutex
	byAcct   map[string]string
	byToken  map[string]string
	issueErr error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byAcct: make(map[string]string), byToken: make(map[string]string)}
}

func (r *fakeTokenRepo) Issue(_ context.Context, accountID, value string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.issueErr != nil {
		return "", r.issueErr
	}
	if existing, ok := r.byAcct[accountID]; ok {
		return existing, nil
	}
	r.byAcct[accountID] = value
	r.byToken[value] = accountID
	return value, nil
}

func (r *fakeTokenRepo) Resolve(_ context.Context, value string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byToken[value]; ok {
		return id, nil
	}
	return "", repository.ErrNotFound
}

func (r *fakeTokenRepo) Revoke(_ context.Context, accountID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.byAcct[accountID]
	if !ok {
		return "", repository.ErrNotFound
	}
	delete(r.byAcct, accountID)
	delete(r.byToken, token)
	return token, nil
}

var _ repository.TokenRepository = (*fakeTokenRepo)(nil)

type fakeEmailQueue struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (q *fakeEmailQueue) PublishJSON(_ context.Context, body any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		q.jobs = append(q.jobs, job)
	}
	return nil
}

func (q *fakeEmailQueue) sent() []mailer.EmailJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]mailer.EmailJob, len(q.jobs))
	copy(out, q.jobs)
	return out
}

// testHasher keeps argon2 cheap enough for the test suite.
func testHasher() *hashing.Hasher {
	return hashing.New(hashing.Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

type testEnv struct {
	accounts *fakeAccountRepo
	tokens   *fakeTokenRepo
	queue    *fakeEmailQueue
	auth     *AuthService
	svc      *AccountService
}

func newTestEnv() *testEnv {
	accounts := newFakeAccountRepo()
	tokens := newFakeTokenRepo()
	queue := &fakeEmailQueue{}
	logger, _ := logtest.NewNullLogger()

	auth := NewAuthService(accounts, tokens, testHasher(), nil, logger)
	svc := NewAccountService(accounts, testHasher(), auth, queue, logger,
		"https://app.example.com/confirm", "https://app.example.com/reset")

	return &testEnv{accounts: accounts, tokens: tokens, queue: queue, auth: auth, svc: svc}
}
