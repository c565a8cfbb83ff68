package service

import (
	"context"
	"fmt"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/repository/contract"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/pkg/embedding"
	"ai-imagestudio-be/pkg/imagen"
	"ai-imagestudio-be/pkg/removal"

	"github.com/google/uuid"
)

// Hand-rolled fakes. Specifications apply to *gorm.DB, so the fakes return
// scripted values and record writes instead of interpreting filters.

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUnitOfWork struct {
	users   *fakeUserRepo
	credits *fakeCreditRepo
	gens    *fakeGenerationRepo
	edits   *fakeEditRepo
	packs   *fakePackRepo
	orders  *fakeOrderRepo

	beginErr  error
	commitErr error
	begins    int
	commits   int
	rollbacks int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:   &fakeUserRepo{},
		credits: &fakeCreditRepo{spendOK: true},
		gens:    &fakeGenerationRepo{},
		edits:   &fakeEditRepo{},
		packs:   &fakePackRepo{},
		orders:  &fakeOrderRepo{transition: true},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.beginErr != nil {
		return u.beginErr
	}
	u.begins++
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.commits++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.rollbacks++
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository             { return u.users }
func (u *fakeUnitOfWork) CreditRepository() contract.CreditRepository         { return u.credits }
func (u *fakeUnitOfWork) GenerationRepository() contract.GenerationRepository { return u.gens }
func (u *fakeUnitOfWork) EditRepository() contract.EditRepository             { return u.edits }
func (u *fakeUnitOfWork) PackRepository() contract.PackRepository             { return u.packs }
func (u *fakeUnitOfWork) OrderRepository() contract.OrderRepository           { return u.orders }

// --- Credit repository ---

type fakeCreditRepo struct {
	balance    *entity.CreditBalance
	balanceErr error

	spendOK   bool
	spendErr  error
	spends    []int
	addCalls  []int
	addErr    error
	createdTx []*entity.CreditTransaction
	txErr     error

	createdBalances []*entity.CreditBalance
	createBalErr    error

	txRows  []*entity.CreditTransaction
	txCount int64
}

func (r *fakeCreditRepo) GetBalance(ctx context.Context, userId uuid.UUID) (*entity.CreditBalance, error) {
	return r.balance, r.balanceErr
}

func (r *fakeCreditRepo) CreateBalance(ctx context.Context, balance *entity.CreditBalance) error {
	if r.createBalErr != nil {
		return r.createBalErr
	}
	r.createdBalances = append(r.createdBalances, balance)
	r.balance = balance
	return nil
}

func (r *fakeCreditRepo) AddCredits(ctx context.Context, userId uuid.UUID, amount int) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.addCalls = append(r.addCalls, amount)
	if r.balance != nil {
		r.balance.Balance += amount
	}
	return nil
}

func (r *fakeCreditRepo) SpendIfSufficient(ctx context.Context, userId uuid.UUID, amount int) (bool, error) {
	if r.spendErr != nil {
		return false, r.spendErr
	}
	if !r.spendOK {
		return false, nil
	}
	r.spends = append(r.spends, amount)
	if r.balance != nil {
		r.balance.Balance -= amount
	}
	return true, nil
}

func (r *fakeCreditRepo) CreateTransaction(ctx context.Context, tx *entity.CreditTransaction) error {
	if r.txErr != nil {
		return r.txErr
	}
	r.createdTx = append(r.createdTx, tx)
	return nil
}

func (r *fakeCreditRepo) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	return r.txRows, nil
}

func (r *fakeCreditRepo) CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.txCount, nil
}

func (r *fakeCreditRepo) SumTransactions(ctx context.Context, userId uuid.UUID) (int64, error) {
	var sum int64
	for _, tx := range r.createdTx {
		sum += int64(tx.Amount)
	}
	return sum, nil
}

// --- Generation repository ---

type fakeGenerationRepo struct {
	created []*entity.GenerationRecord
	// createFailAt fails the Nth Create call (1-based). Zero never fails.
	createFailAt int

	findOne *entity.GenerationRecord
	findAll []*entity.GenerationRecord
	count   int64
	deleted []uuid.UUID

	similar    []*entity.GenerationRecord
	similarErr error

	embeddings map[uuid.UUID][]float32
}

func (r *fakeGenerationRepo) Create(ctx context.Context, record *entity.GenerationRecord) error {
	if r.createFailAt > 0 && len(r.created)+1 == r.createFailAt {
		return fmt.Errorf("forced create failure")
	}
	r.created = append(r.created, record)
	return nil
}

func (r *fakeGenerationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeGenerationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationRecord, error) {
	return r.findOne, nil
}

func (r *fakeGenerationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationRecord, error) {
	return r.findAll, nil
}

func (r *fakeGenerationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.count, nil
}

func (r *fakeGenerationRepo) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	if r.embeddings == nil {
		r.embeddings = make(map[uuid.UUID][]float32)
	}
	r.embeddings[id] = embedding
	return nil
}

func (r *fakeGenerationRepo) SearchSimilar(ctx context.Context, userId uuid.UUID, embedding []float32, limit int) ([]*entity.GenerationRecord, error) {
	return r.similar, r.similarErr
}

// --- Edit repository ---

type fakeEditRepo struct {
	created   []*entity.EditRecord
	createErr error
	findOne   *entity.EditRecord
	findAll   []*entity.EditRecord
	count     int64
	deleted   []uuid.UUID
}

func (r *fakeEditRepo) Create(ctx context.Context, record *entity.EditRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, record)
	return nil
}

func (r *fakeEditRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeEditRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EditRecord, error) {
	return r.findOne, nil
}

func (r *fakeEditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EditRecord, error) {
	return r.findAll, nil
}

func (r *fakeEditRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.count, nil
}

// --- User repository ---

type fakeUserRepo struct {
	findOne    *entity.User
	findOneErr error
	findAll    []*entity.User
	count      int64

	created []*entity.User
	updated []*entity.User
	deleted []uuid.UUID

	searchResults []*entity.User
	searchQueries []string

	statusUpdates map[uuid.UUID]string
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.created = append(r.created, user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.updated = append(r.updated, user)
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.findOne, r.findOneErr
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return r.findAll, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.count, nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	return nil
}

func (r *fakeUserRepo) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error { return nil }

func (r *fakeUserRepo) ActivateUser(ctx context.Context, userId uuid.UUID) error { return nil }

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if r.statusUpdates == nil {
		r.statusUpdates = make(map[uuid.UUID]string)
	}
	r.statusUpdates[id] = status
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error {
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	return nil
}

func (r *fakeUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	return nil
}

func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	r.searchQueries = append(r.searchQueries, query)
	return r.searchResults, nil
}

func (r *fakeUserRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return len(r.findAll), nil
}

// --- Pack and order repositories ---

type fakePackRepo struct {
	findOne *entity.CreditPack
	findAll []*entity.CreditPack
	created []*entity.CreditPack
}

func (r *fakePackRepo) Create(ctx context.Context, pack *entity.CreditPack) error {
	r.created = append(r.created, pack)
	return nil
}

func (r *fakePackRepo) Update(ctx context.Context, pack *entity.CreditPack) error { return nil }

func (r *fakePackRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPack, error) {
	return r.findOne, nil
}

func (r *fakePackRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPack, error) {
	return r.findAll, nil
}

type fakeOrderRepo struct {
	created []*entity.CreditOrder
	findOne *entity.CreditOrder
	findAll []*entity.CreditOrder
	count   int64

	// transition scripts UpdateStatusIfPending; false simulates a replay.
	transition  bool
	transitions []entity.OrderStatus
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.CreditOrder) error {
	r.created = append(r.created, order)
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.CreditOrder) error { return nil }

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditOrder, error) {
	return r.findOne, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditOrder, error) {
	return r.findAll, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.count, nil
}

func (r *fakeOrderRepo) UpdateStatusIfPending(ctx context.Context, orderId string, status entity.OrderStatus) (bool, error) {
	if !r.transition {
		return false, nil
	}
	r.transitions = append(r.transitions, status)
	return true, nil
}

// --- Providers and infrastructure ---

type fakeImageProvider struct {
	prompts []string
	// failAt fails the Nth Generate call (1-based). Zero never fails.
	failAt  int
	failErr error
	result  *imagen.Image
}

func (p *fakeImageProvider) Generate(ctx context.Context, prompt string, options ...imagen.Option) (*imagen.Image, error) {
	p.prompts = append(p.prompts, prompt)
	if p.failAt > 0 && len(p.prompts) == p.failAt {
		return nil, p.failErr
	}
	if p.result != nil {
		return p.result, nil
	}
	return &imagen.Image{Data: []byte("png-bytes"), MimeType: "image/png"}, nil
}

type fakeRemovalProvider struct {
	calls  int
	err    error
	result *removal.Result
}

func (p *fakeRemovalProvider) Remove(ctx context.Context, image []byte, contentType string) (*removal.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.result != nil {
		return p.result, nil
	}
	return &removal.Result{Data: []byte("cutout-bytes"), MimeType: "image/png"}, nil
}

type fakeStore struct {
	saves   []string
	saveErr error
}

func (s *fakeStore) Save(subdir string, data []byte, mimeType string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := fmt.Sprintf("http://localhost:3000/uploads/%s/file-%d.png", subdir, len(s.saves)+1)
	s.saves = append(s.saves, url)
	return url, nil
}

type fakeJobPublisher struct {
	payloads [][]byte
	err      error
}

func (p *fakeJobPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeEmbedder struct {
	texts  []string
	values []float32
	err    error
}

func (e *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	e.texts = append(e.texts, text)
	if e.err != nil {
		return nil, e.err
	}
	res := &embedding.EmbeddingResponse{}
	res.Embedding.Values = e.values
	return res, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }
