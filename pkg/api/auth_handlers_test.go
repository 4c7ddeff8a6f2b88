package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyhall/studyhall/pkg/auth"
	"github.com/studyhall/studyhall/pkg/storage"
	"github.com/studyhall/studyhall/pkg/users"
)

const testSecret = "test-secret-0123456789abcdef0123"

func newAuthRouter(t *testing.T) (*mux.Router, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := users.NewStore(storage.Wrap(db, storage.DriverSQLite))
	hasher := auth.NewPasswordHasherWithCost(bcrypt.MinCost)
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	manager := auth.NewManager(store, hasher)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	r := mux.NewRouter()
	NewAuthHandlers(store, hasher, manager, codec, nil, logger).RegisterRoutes(r)
	return r, mock
}

func TestRegister(t *testing.T) {
	router, mock := newAuthRouter(t)

	mock.ExpectQuery("SELECT COUNT(.+) FROM users WHERE email").
		WithArgs("ann@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"name":"Ann","email":"ann@x.com","password":"secret123"}`
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_EmailTaken(t *testing.T) {
	router, mock := newAuthRouter(t)

	mock.ExpectQuery("SELECT COUNT(.+) FROM users WHERE email").
		WithArgs("ann@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body := `{"name":"Ann","email":"ann@x.com","password":"secret123"}`
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Email already in use", resp.Message)
	// no INSERT was expected, the duplicate check short-circuits
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_MissingFields(t *testing.T) {
	router, _ := newAuthRouter(t)

	for _, body := range []string{
		`{"email":"ann@x.com","password":"secret123"}`,
		`{"name":"Ann","password":"secret123"}`,
		`{"name":"Ann","email":"ann@x.com"}`,
	} {
		req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader([]byte(body)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func userRow(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
		AddRow(int64(42), "Ann", "ann@x.com", string(hash), time.Now().UTC())
}

func TestLogin(t *testing.T) {
	router, mock := newAuthRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ann@x.com").
		WillReturnRows(userRow(t, "secret123"))

	body := `{"email":"ann@x.com","password":"secret123"}`
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp JwtResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Token)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, int64(42), *resp.UserID)

	codec := auth.NewTokenCodec(testSecret, time.Hour)
	userID, err := codec.Parse(*resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, mock := newAuthRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ann@x.com").
		WillReturnRows(userRow(t, "secret123"))

	body := `{"email":"ann@x.com","password":"wrong-password"}`
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var resp JwtResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Token)
	assert.Nil(t, resp.UserID)
}

func TestLogin_UnknownEmail(t *testing.T) {
	router, mock := newAuthRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}))

	body := `{"email":"nobody@x.com","password":"secret123"}`
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
