package models

import (
	"time"

	"saccohub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Membership & Auth Tables
// ============================================================

// Member represents members table
type Member struct {
	ID               uint                    `gorm:"primaryKey" json:"id"`
	MemberNo         string                  `gorm:"uniqueIndex;size:20;not null" json:"member_no"`
	Username         string                  `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email            string                  `gorm:"uniqueIndex;size:100;not null" json:"email"`
	FullName         string                  `gorm:"size:100;not null" json:"full_name"`
	Password         string                  `gorm:"size:255;not null" json:"-"`
	Role             domain.Role             `gorm:"size:20;default:'MEMBER'" json:"role"`
	MembershipStatus domain.MembershipStatus `gorm:"size:20;default:'PENDING';index" json:"membership_status"`
	IsActive         bool                    `gorm:"default:true" json:"is_active"`
	JoinedAt         time.Time               `gorm:"autoCreateTime" json:"joined_at"`
	ApprovedAt       *time.Time              `json:"approved_at"`
	ApprovedBy       *uint                   `json:"approved_by"`
	UpdatedAt        time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt          `gorm:"index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

// MemberResponse DTO — public projection, never carries the credential hash
type MemberResponse struct {
	ID               uint                    `json:"id"`
	MemberNo         string                  `json:"member_no"`
	Username         string                  `json:"username"`
	Email            string                  `json:"email"`
	FullName         string                  `json:"full_name"`
	Role             domain.Role             `json:"role"`
	MembershipStatus domain.MembershipStatus `json:"membership_status"`
	IsActive         bool                    `json:"is_active"`
	JoinedAt         time.Time               `json:"joined_at"`
	ApprovedAt       *time.Time              `json:"approved_at,omitempty"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:               m.ID,
		MemberNo:         m.MemberNo,
		Username:         m.Username,
		Email:            m.Email,
		FullName:         m.FullName,
		Role:             m.Role,
		MembershipStatus: m.MembershipStatus,
		IsActive:         m.IsActive,
		JoinedAt:         m.JoinedAt,
		ApprovedAt:       m.ApprovedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MemberID  uint       `gorm:"index;not null" json:"member_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Member    Member     `gorm:"foreignKey:MemberID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Savings & Loans
// ============================================================

// SavingsAccount represents savings_accounts table
type SavingsAccount struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	MemberID        uint               `gorm:"not null;index" json:"member_id"`
	AccountNo       string             `gorm:"uniqueIndex;size:30;not null" json:"account_no"`
	AccountType     domain.AccountType `gorm:"size:20;not null;default:'REGULAR'" json:"account_type"`
	Balance         float64            `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	InterestRate    float64            `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	AccruedInterest float64            `gorm:"type:decimal(15,2);not null;default:0" json:"accrued_interest"`
	IsActive        bool               `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (SavingsAccount) TableName() string {
	return "savings_accounts"
}

// Loan represents loans table
type Loan struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	MemberID         uint              `gorm:"not null;index" json:"member_id"`
	LoanNo           string            `gorm:"uniqueIndex;size:30;not null" json:"loan_no"`
	Principal        float64           `gorm:"type:decimal(15,2);not null" json:"principal"`
	InterestRate     float64           `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	TermMonths       int               `gorm:"not null" json:"term_months"`
	Status           domain.LoanStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	MonthlyPayment   float64           `gorm:"type:decimal(15,2);not null" json:"monthly_payment"`
	RemainingBalance float64           `gorm:"type:decimal(15,2);not null" json:"remaining_balance"`
	Purpose          string            `gorm:"type:text" json:"purpose"`
	ProcessedBy      *uint             `json:"processed_by"`
	ProcessedAt      *time.Time        `json:"processed_at"`
	Remark           string            `gorm:"type:text" json:"remark"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relations
	Member    *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Processor *Member `gorm:"foreignKey:ProcessedBy" json:"processor,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID               uint              `json:"id"`
	MemberID         uint              `json:"member_id"`
	MemberName       string            `json:"member_name,omitempty"`
	LoanNo           string            `json:"loan_no"`
	Principal        float64           `json:"principal"`
	InterestRate     float64           `json:"interest_rate"`
	TermMonths       int               `json:"term_months"`
	Status           domain.LoanStatus `json:"status"`
	MonthlyPayment   float64           `json:"monthly_payment"`
	RemainingBalance float64           `json:"remaining_balance"`
	Purpose          string            `json:"purpose"`
	ProcessedBy      *uint             `json:"processed_by,omitempty"`
	ProcessedAt      *time.Time        `json:"processed_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:               l.ID,
		MemberID:         l.MemberID,
		LoanNo:           l.LoanNo,
		Principal:        l.Principal,
		InterestRate:     l.InterestRate,
		TermMonths:       l.TermMonths,
		Status:           l.Status,
		MonthlyPayment:   l.MonthlyPayment,
		RemainingBalance: l.RemainingBalance,
		Purpose:          l.Purpose,
		ProcessedBy:      l.ProcessedBy,
		ProcessedAt:      l.ProcessedAt,
		CreatedAt:        l.CreatedAt,
	}
	if l.Member != nil {
		resp.MemberName = l.Member.FullName
	}
	return resp
}

// ============================================================
// Transactions
// ============================================================

// Transaction represents transactions table
type Transaction struct {
	ID          uint                     `gorm:"primaryKey" json:"id"`
	Reference   string                   `gorm:"uniqueIndex;size:40;not null" json:"reference"`
	MemberID    uint                     `gorm:"not null;index" json:"member_id"`
	AccountID   *uint                    `gorm:"index" json:"account_id"`
	LoanID      *uint                    `gorm:"index" json:"loan_id"`
	Type        domain.TransactionType   `gorm:"size:30;not null" json:"type"`
	Status      domain.TransactionStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	Amount      float64                  `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string                   `gorm:"type:text" json:"description"`
	PerformedBy uint                     `gorm:"not null" json:"performed_by"`
	CreatedAt   time.Time                `gorm:"autoCreateTime;index" json:"created_at"`

	// Relations
	Member  *Member         `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Account *SavingsAccount `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Loan    *Loan           `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionResponse DTO joined with member name
type TransactionResponse struct {
	ID          uint                     `json:"id"`
	Reference   string                   `json:"reference"`
	MemberID    uint                     `json:"member_id"`
	MemberName  string                   `json:"member_name,omitempty"`
	Type        domain.TransactionType   `json:"type"`
	Status      domain.TransactionStatus `json:"status"`
	Amount      float64                  `json:"amount"`
	Description string                   `json:"description,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

func (t *Transaction) ToResponse() *TransactionResponse {
	resp := &TransactionResponse{
		ID:          t.ID,
		Reference:   t.Reference,
		MemberID:    t.MemberID,
		Type:        t.Type,
		Status:      t.Status,
		Amount:      t.Amount,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	if t.Member != nil {
		resp.MemberName = t.Member.FullName
	}
	return resp
}

// ============================================================
// Governance
// ============================================================

// Proposal represents proposals table
type Proposal struct {
	ID           uint                  `gorm:"primaryKey" json:"id"`
	Title        string                `gorm:"size:200;not null" json:"title"`
	Description  string                `gorm:"type:text" json:"description"`
	Category     string                `gorm:"size:50;not null" json:"category"`
	Status       domain.ProposalStatus `gorm:"size:20;not null;default:'DRAFT';index" json:"status"`
	ProposedBy   uint                  `gorm:"not null" json:"proposed_by"`
	OpensAt      *time.Time            `json:"opens_at"`
	ClosesAt     *time.Time            `json:"closes_at"`
	VotesFor     int                   `gorm:"not null;default:0" json:"votes_for"`
	VotesAgainst int                   `gorm:"not null;default:0" json:"votes_against"`
	VotesAbstain int                   `gorm:"not null;default:0" json:"votes_abstain"`
	CreatedAt    time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time             `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Proposer *Member `gorm:"foreignKey:ProposedBy" json:"proposer,omitempty"`
	Votes    []Vote  `gorm:"foreignKey:ProposalID" json:"votes,omitempty"`
}

func (Proposal) TableName() string {
	return "proposals"
}

// Vote represents votes table (one vote per member per proposal)
type Vote struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ProposalID uint              `gorm:"not null;uniqueIndex:idx_votes_proposal_member" json:"proposal_id"`
	MemberID   uint              `gorm:"not null;uniqueIndex:idx_votes_proposal_member" json:"member_id"`
	Choice     domain.VoteChoice `gorm:"size:10;not null" json:"choice"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Proposal *Proposal `gorm:"foreignKey:ProposalID" json:"-"`
	Member   *Member   `gorm:"foreignKey:MemberID" json:"-"`
}

func (Vote) TableName() string {
	return "votes"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&RefreshToken{},
		&SavingsAccount{},
		&Loan{},
		&Transaction{},
		&Proposal{},
		&Vote{},
	)
}
