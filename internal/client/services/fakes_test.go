package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/client/notify"
	"github.com/securoserv/securovault/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SettleDelay = 0
	return cfg
}

// fakeClient implements api.Client for service unit tests. Unused endpoints
// just return the configured error.
type fakeClient struct {
	LoginRet *api.LoginResult
	LoginErr error

	CreateUserRet string
	CreateUserErr error

	ResendErr error

	VerifyOTPRet string
	VerifyOTPErr error

	MeRet *api.MeResult
	MeErr error

	StorageUsedRet float64
	StorageUsedErr error

	UploadFilesErr  error
	UploadFolderErr error

	AllDataRet *api.AllData
	AllDataErr error

	DownloadRet *api.DownloadResult
	DownloadErr error

	DeleteErr error

	CreateOrderRet *api.Order
	CreateOrderErr error

	VerifyPaymentErr error

	// recorded arguments
	LastLogin        api.LoginRequest
	LastCreateUser   api.CreateUserRequest
	LastResendEmail  string
	LastVerifyEmail  string
	LastVerifyOTP    string
	LastUploadFiles  []api.UploadFile
	LastUploadFolder []api.UploadFile
	LastDownloadID   string
	LastDeleteID     string
	LastOrderAmount  int64
	LastVerification api.PaymentVerification

	// call counters
	LoginCalls       int
	CreateUserCalls  int
	ResendCalls      int
	MeCalls          int
	StorageUsedCalls int
	UploadCalls      int
	AllDataCalls     int
	OrderCalls       int
	VerifyPayCalls   int
}

func (f *fakeClient) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResult, error) {
	f.LoginCalls++
	f.LastLogin = req
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) CreateUser(ctx context.Context, req api.CreateUserRequest) (string, error) {
	f.CreateUserCalls++
	f.LastCreateUser = req
	return f.CreateUserRet, f.CreateUserErr
}

func (f *fakeClient) ResendOTP(ctx context.Context, email string) error {
	f.ResendCalls++
	f.LastResendEmail = email
	return f.ResendErr
}

func (f *fakeClient) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	f.LastVerifyEmail = email
	f.LastVerifyOTP = otp
	return f.VerifyOTPRet, f.VerifyOTPErr
}

func (f *fakeClient) Me(ctx context.Context) (*api.MeResult, error) {
	f.MeCalls++
	return f.MeRet, f.MeErr
}

func (f *fakeClient) StorageUsed(ctx context.Context) (float64, error) {
	f.StorageUsedCalls++
	return f.StorageUsedRet, f.StorageUsedErr
}

func (f *fakeClient) UploadFiles(ctx context.Context, files []api.UploadFile, progress api.ProgressFunc) error {
	f.UploadCalls++
	f.LastUploadFiles = files
	if progress != nil && f.UploadFilesErr == nil {
		progress(100)
	}
	return f.UploadFilesErr
}

func (f *fakeClient) UploadFolder(ctx context.Context, files []api.UploadFile, progress api.ProgressFunc) error {
	f.UploadCalls++
	f.LastUploadFolder = files
	return f.UploadFolderErr
}

func (f *fakeClient) AllData(ctx context.Context) (*api.AllData, error) {
	f.AllDataCalls++
	return f.AllDataRet, f.AllDataErr
}

func (f *fakeClient) Download(ctx context.Context, fileID string) (*api.DownloadResult, error) {
	f.LastDownloadID = fileID
	return f.DownloadRet, f.DownloadErr
}

func (f *fakeClient) DeleteFile(ctx context.Context, fileID string) error {
	f.LastDeleteID = fileID
	return f.DeleteErr
}

func (f *fakeClient) CreateOrder(ctx context.Context, amount int64) (*api.Order, error) {
	f.OrderCalls++
	f.LastOrderAmount = amount
	return f.CreateOrderRet, f.CreateOrderErr
}

func (f *fakeClient) VerifyPayment(ctx context.Context, v api.PaymentVerification) error {
	f.VerifyPayCalls++
	f.LastVerification = v
	return f.VerifyPaymentErr
}

// fakeStore implements session.Store in memory.
type fakeStore struct {
	mu    sync.Mutex
	token string
	role  models.Role
	user  *models.User

	SetErr   error
	ClearErr error

	SetCalls   int
	ClearCalls int
}

func (f *fakeStore) Set(ctx context.Context, token string, role models.Role, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetCalls++
	if f.SetErr != nil {
		return f.SetErr
	}
	f.token, f.role, f.user = token, role, user
	return nil
}

func (f *fakeStore) SetRole(ctx context.Context, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.role = role
	return nil
}

func (f *fakeStore) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeStore) Role(ctx context.Context) (models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.role == "" {
		return models.RoleUser, nil
	}
	return f.role, nil
}

func (f *fakeStore) Session(ctx context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		return nil, nil
	}
	return &models.Session{Token: f.token, Role: f.role, User: f.user}, nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.token, f.role, f.user = "", "", nil
	return nil
}

func (f *fakeStore) Sanitize(ctx context.Context) error { return nil }

// fakeNotifier records toasts.
type fakeNotifier struct {
	mu     sync.Mutex
	Toasts []notify.Toast
}

func (f *fakeNotifier) Notify(kind notify.Kind, message, details string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Toasts = append(f.Toasts, notify.Toast{Kind: kind, Message: message, Details: details})
}

func (f *fakeNotifier) Close() {}

func (f *fakeNotifier) last() (notify.Toast, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Toasts) == 0 {
		return notify.Toast{}, false
	}
	return f.Toasts[len(f.Toasts)-1], true
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Toasts)
}
