package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"saccohub/internal/adapters/http/middleware"
	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	memberRepo := repositories.NewMemberRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	savingsRepo := repositories.NewSavingsRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	memberService := services.NewMemberService(memberRepo, nil)
	loanService := services.NewLoanService(loanRepo, nil)
	dashboardService := services.NewDashboardService(memberRepo, savingsRepo, loanRepo, transactionRepo, nil)
	reportService := services.NewReportService(memberRepo, savingsRepo, loanRepo, transactionRepo)

	authService := services.NewAuthService(memberRepo, refreshTokenRepo, cfg)

	authHandler := NewAuthHandler(authService, memberService, cfg)
	adminHandler := NewAdminHandler(memberService, dashboardService, reportService)
	loanHandler := NewLoanHandler(loanService)

	app := fiber.New()
	app.Get("/auth/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	treasury := app.Group("/treasury")
	treasury.Use(middleware.AuthMiddleware(cfg))
	treasury.Use(middleware.TreasurerOrAdmin(memberRepo))
	treasury.Post("/loans/:id/disburse", loanHandler.Disburse)
	treasury.Post("/loans/:id/repayments", loanHandler.RecordRepayment)

	admin := app.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminOnly(memberRepo))
	admin.Get("/pending-members", adminHandler.ListPendingMembers)
	admin.Get("/recent-transactions", adminHandler.RecentTransactions)
	admin.Get("/dashboard", adminHandler.DashboardSummary)
	admin.Patch("/members/:id/status", adminHandler.ChangeMemberStatus)
	admin.Patch("/loans/applications/:id/:action", loanHandler.Decide)
	admin.Post("/reports/generate", adminHandler.GenerateReport)

	return &testEnv{app: app, db: db, cfg: cfg}
}

func (e *testEnv) seedMember(t *testing.T, username string, role domain.Role, status domain.MembershipStatus) *models.Member {
	t.Helper()

	member := &models.Member{
		MemberNo:         "SCH-" + username,
		Username:         username,
		Email:            username + "@saccohub.example",
		FullName:         "Test " + username,
		Password:         "$2a$12$notarealhashnotarealhashnotarealhashnotareal",
		Role:             role,
		MembershipStatus: status,
		IsActive:         true,
	}
	require.NoError(t, e.db.Create(member).Error)
	return member
}

func (e *testEnv) tokenFor(t *testing.T, member *models.Member) string {
	t.Helper()

	token, err := jwt.GenerateAccessToken(member.ID, member.MemberNo, member.Username, member.Role, e.cfg.JWT.Secret, 15)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, e *testEnv, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestAdminRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)

	status, body := doRequest(t, e, "GET", "/admin/pending-members", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
}

func TestAdminRoutesRejectNonAdmin(t *testing.T) {
	e := newTestEnv(t)
	member := e.seedMember(t, "regular", domain.RoleMember, domain.MembershipApproved)

	status, _ := doRequest(t, e, "GET", "/admin/pending-members", e.tokenFor(t, member), nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestAdminRoleReadFromStoreNotToken(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	token := e.tokenFor(t, admin)

	// Demote after the token was issued; the store wins
	require.NoError(t, e.db.Model(&models.Member{}).Where("id = ?", admin.ID).
		Update("role", domain.RoleMember).Error)

	status, _ := doRequest(t, e, "GET", "/admin/pending-members", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestSuspendedAdminLosesAccess(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	token := e.tokenFor(t, admin)

	require.NoError(t, e.db.Model(&models.Member{}).Where("id = ?", admin.ID).
		Update("membership_status", domain.MembershipSuspended).Error)

	status, _ := doRequest(t, e, "GET", "/admin/pending-members", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestPendingMembersEmptyList(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)

	status, body := doRequest(t, e, "GET", "/admin/pending-members", e.tokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["count"])
	assert.Empty(t, data["members"])
}

func TestPendingMembersOldestFirst(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	older := e.seedMember(t, "older", domain.RoleMember, domain.MembershipPending)
	newer := e.seedMember(t, "newer", domain.RoleMember, domain.MembershipPending)

	now := time.Now()
	require.NoError(t, e.db.Model(&models.Member{}).Where("id = ?", older.ID).
		Update("joined_at", now.Add(-48*time.Hour)).Error)
	require.NoError(t, e.db.Model(&models.Member{}).Where("id = ?", newer.ID).
		Update("joined_at", now.Add(-1*time.Hour)).Error)

	status, body := doRequest(t, e, "GET", "/admin/pending-members", e.tokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	members := data["members"].([]interface{})
	require.Len(t, members, 2)
	assert.Equal(t, "older", members[0].(map[string]interface{})["username"])
	assert.Equal(t, "newer", members[1].(map[string]interface{})["username"])
}

func TestChangeMemberStatusInvalidEnum(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	target := e.seedMember(t, "target", domain.RoleMember, domain.MembershipPending)

	path := fmt.Sprintf("/admin/members/%d/status", target.ID)
	status, _ := doRequest(t, e, "PATCH", path, e.tokenFor(t, admin), fiber.Map{"status": "INVALID_STATUS"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Stored state unchanged
	var stored models.Member
	require.NoError(t, e.db.First(&stored, target.ID).Error)
	assert.Equal(t, domain.MembershipPending, stored.MembershipStatus)
}

func TestChangeMemberStatusIdempotent(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	target := e.seedMember(t, "target", domain.RoleMember, domain.MembershipPending)

	path := fmt.Sprintf("/admin/members/%d/status", target.ID)
	token := e.tokenFor(t, admin)

	status, _ := doRequest(t, e, "PATCH", path, token, fiber.Map{"status": "APPROVED"})
	require.Equal(t, fiber.StatusOK, status)

	// Same transition again succeeds with the current record
	status, body := doRequest(t, e, "PATCH", path, token, fiber.Map{"status": "APPROVED"})
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	member := data["member"].(map[string]interface{})
	assert.Equal(t, "APPROVED", member["membership_status"])
}

func TestChangeMemberStatusUnknownMember(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)

	status, _ := doRequest(t, e, "PATCH", "/admin/members/99999/status", e.tokenFor(t, admin), fiber.Map{"status": "APPROVED"})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestLoanDecisionFlow(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	borrower := e.seedMember(t, "borrower", domain.RoleMember, domain.MembershipApproved)
	token := e.tokenFor(t, admin)

	loan := &models.Loan{
		MemberID:         borrower.ID,
		LoanNo:           "LN-TEST0001",
		Principal:        5000,
		InterestRate:     12,
		TermMonths:       6,
		Status:           domain.LoanPending,
		MonthlyPayment:   862.74,
		RemainingBalance: 5000,
	}
	require.NoError(t, e.db.Create(loan).Error)

	base := fmt.Sprintf("/admin/loans/applications/%d", loan.ID)

	// Unknown action token in the path
	status, _ := doRequest(t, e, "PATCH", base+"/escalate", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Approve
	status, _ = doRequest(t, e, "PATCH", base+"/approve", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	// Approving again is idempotent
	status, _ = doRequest(t, e, "PATCH", base+"/approve", token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	// The opposite decision conflicts
	status, _ = doRequest(t, e, "PATCH", base+"/reject", token, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	var stored models.Loan
	require.NoError(t, e.db.First(&stored, loan.ID).Error)
	assert.Equal(t, domain.LoanApproved, stored.Status)
}

func TestRecentTransactionsNewestFirst(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	member := e.seedMember(t, "saver", domain.RoleMember, domain.MembershipApproved)

	now := time.Now()
	for i := 0; i < 3; i++ {
		tx := &models.Transaction{
			Reference:   fmt.Sprintf("ref-%d", i),
			MemberID:    member.ID,
			Type:        domain.TxDeposit,
			Status:      domain.TxStatusCompleted,
			Amount:      float64(100 * (i + 1)),
			PerformedBy: member.ID,
		}
		require.NoError(t, e.db.Create(tx).Error)
		require.NoError(t, e.db.Model(&models.Transaction{}).Where("id = ?", tx.ID).
			Update("created_at", now.Add(time.Duration(i)*time.Minute)).Error)
	}

	status, body := doRequest(t, e, "GET", "/admin/recent-transactions", e.tokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	txs := data["transactions"].([]interface{})
	require.Len(t, txs, 3)

	first := txs[0].(map[string]interface{})
	assert.Equal(t, "ref-2", first["reference"])
	assert.Equal(t, "Test saver", first["member_name"])
}

func TestAuthMe(t *testing.T) {
	e := newTestEnv(t)
	member := e.seedMember(t, "alice", domain.RoleMember, domain.MembershipApproved)

	status, body := doRequest(t, e, "GET", "/auth/me", e.tokenFor(t, member), nil)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	profile := data["member"].(map[string]interface{})
	assert.Equal(t, "alice", profile["username"])

	status, _ = doRequest(t, e, "GET", "/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAuthMeRejectsDeactivatedMember(t *testing.T) {
	e := newTestEnv(t)
	member := e.seedMember(t, "alice", domain.RoleMember, domain.MembershipApproved)
	token := e.tokenFor(t, member)

	require.NoError(t, e.db.Model(&models.Member{}).Where("id = ?", member.ID).
		Update("is_active", false).Error)

	status, _ := doRequest(t, e, "GET", "/auth/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestTreasuryRoutesRequireTreasurerOrAdmin(t *testing.T) {
	e := newTestEnv(t)
	treasurer := e.seedMember(t, "treasurer", domain.RoleTreasurer, domain.MembershipApproved)
	regular := e.seedMember(t, "regular", domain.RoleMember, domain.MembershipApproved)
	borrower := e.seedMember(t, "borrower", domain.RoleMember, domain.MembershipApproved)

	loan := &models.Loan{
		MemberID:         borrower.ID,
		LoanNo:           "LN-TREAS001",
		Principal:        5000,
		InterestRate:     12,
		TermMonths:       6,
		Status:           domain.LoanApproved,
		MonthlyPayment:   862.74,
		RemainingBalance: 5000,
	}
	require.NoError(t, e.db.Create(loan).Error)

	path := fmt.Sprintf("/treasury/loans/%d/disburse", loan.ID)

	// A regular member cannot move money
	status, _ := doRequest(t, e, "POST", path, e.tokenFor(t, regular), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doRequest(t, e, "POST", path, e.tokenFor(t, treasurer), nil)
	require.Equal(t, fiber.StatusOK, status)

	var stored models.Loan
	require.NoError(t, e.db.First(&stored, loan.ID).Error)
	assert.Equal(t, domain.LoanDisbursed, stored.Status)

	// Treasurer records a counter repayment on the member's behalf
	repayPath := fmt.Sprintf("/treasury/loans/%d/repayments", loan.ID)
	status, body := doRequest(t, e, "POST", repayPath, e.tokenFor(t, treasurer), fiber.Map{"amount": 2000})
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	repaid := data["loan"].(map[string]interface{})
	assert.Equal(t, float64(3000), repaid["remaining_balance"])
}

func TestGenerateReportValidation(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	token := e.tokenFor(t, admin)

	status, _ := doRequest(t, e, "POST", "/admin/reports/generate", token, fiber.Map{
		"report_type": "unknown_report",
		"period":      "2026-08",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doRequest(t, e, "POST", "/admin/reports/generate", token, fiber.Map{
		"report_type": "membership_summary",
		"period":      "August 2026",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGenerateReportReturnsDocument(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)

	payload, err := json.Marshal(fiber.Map{
		"report_type": "membership_summary",
		"period":      "2026-08",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/admin/reports/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.tokenFor(t, admin))

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "membership_summary_2026-08.txt")
}

func TestDashboardSummary(t *testing.T) {
	e := newTestEnv(t)
	admin := e.seedMember(t, "admin", domain.RoleAdmin, domain.MembershipApproved)
	e.seedMember(t, "pending", domain.RoleMember, domain.MembershipPending)

	status, body := doRequest(t, e, "GET", "/admin/dashboard", e.tokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["approved_members"])
	assert.Equal(t, float64(1), data["pending_members"])
}
