package domain

import "time"

// Role represents a member's role in the cooperative
type Role string

const (
	RoleMember      Role = "MEMBER"
	RoleAdmin       Role = "ADMIN"
	RoleTreasurer   Role = "TREASURER"
	RoleChairperson Role = "CHAIRPERSON"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleTreasurer, RoleChairperson:
		return true
	}
	return false
}

// MembershipStatus represents a member's lifecycle status
type MembershipStatus string

const (
	MembershipPending    MembershipStatus = "PENDING"
	MembershipApproved   MembershipStatus = "APPROVED"
	MembershipSuspended  MembershipStatus = "SUSPENDED"
	MembershipTerminated MembershipStatus = "TERMINATED"
)

// Valid reports whether the status is one of the known membership statuses
func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipPending, MembershipApproved, MembershipSuspended, MembershipTerminated:
		return true
	}
	return false
}

// AccountType represents a savings account type
type AccountType string

const (
	AccountRegular      AccountType = "REGULAR"
	AccountFixedDeposit AccountType = "FIXED_DEPOSIT"
	AccountEmergency    AccountType = "EMERGENCY"
)

// Valid reports whether the account type is known
func (t AccountType) Valid() bool {
	switch t {
	case AccountRegular, AccountFixedDeposit, AccountEmergency:
		return true
	}
	return false
}

// LoanStatus represents a loan's lifecycle status
type LoanStatus string

const (
	LoanPending   LoanStatus = "PENDING"
	LoanApproved  LoanStatus = "APPROVED"
	LoanRejected  LoanStatus = "REJECTED"
	LoanDisbursed LoanStatus = "DISBURSED"
	LoanCompleted LoanStatus = "COMPLETED"
	LoanDefaulted LoanStatus = "DEFAULTED"
)

// Valid reports whether the status is one of the known loan statuses
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanApproved, LoanRejected, LoanDisbursed, LoanCompleted, LoanDefaulted:
		return true
	}
	return false
}

// Final reports whether the status is terminal for the application decision flow
func (s LoanStatus) Final() bool {
	return s != LoanPending
}

// LoanAction represents an admin decision on a loan application
type LoanAction string

const (
	LoanActionApprove LoanAction = "approve"
	LoanActionReject  LoanAction = "reject"
)

// Valid reports whether the action is approve or reject
func (a LoanAction) Valid() bool {
	return a == LoanActionApprove || a == LoanActionReject
}

// Status returns the loan status the action transitions to
func (a LoanAction) Status() LoanStatus {
	if a == LoanActionApprove {
		return LoanApproved
	}
	return LoanRejected
}

// TransactionType represents a money movement type
type TransactionType string

const (
	TxDeposit          TransactionType = "DEPOSIT"
	TxWithdrawal       TransactionType = "WITHDRAWAL"
	TxLoanDisbursement TransactionType = "LOAN_DISBURSEMENT"
	TxLoanRepayment    TransactionType = "LOAN_REPAYMENT"
	TxInterestPayment  TransactionType = "INTEREST_PAYMENT"
	TxFeePayment       TransactionType = "FEE_PAYMENT"
	TxTransfer         TransactionType = "TRANSFER"
)

// Valid reports whether the transaction type is known
func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxLoanDisbursement, TxLoanRepayment,
		TxInterestPayment, TxFeePayment, TxTransfer:
		return true
	}
	return false
}

// TransactionStatus represents the settlement state of a transaction
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "PENDING"
	TxStatusCompleted TransactionStatus = "COMPLETED"
	TxStatusFailed    TransactionStatus = "FAILED"
	TxStatusCancelled TransactionStatus = "CANCELLED"
)

// Valid reports whether the transaction status is known
func (s TransactionStatus) Valid() bool {
	switch s {
	case TxStatusPending, TxStatusCompleted, TxStatusFailed, TxStatusCancelled:
		return true
	}
	return false
}

// ProposalStatus represents a governance proposal's lifecycle status
type ProposalStatus string

const (
	ProposalDraft     ProposalStatus = "DRAFT"
	ProposalActive    ProposalStatus = "ACTIVE"
	ProposalCompleted ProposalStatus = "COMPLETED"
	ProposalCancelled ProposalStatus = "CANCELLED"
)

// Valid reports whether the proposal status is known
func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalDraft, ProposalActive, ProposalCompleted, ProposalCancelled:
		return true
	}
	return false
}

// VoteChoice represents a member's vote on a proposal
type VoteChoice string

const (
	VoteFor     VoteChoice = "FOR"
	VoteAgainst VoteChoice = "AGAINST"
	VoteAbstain VoteChoice = "ABSTAIN"
)

// Valid reports whether the vote choice is known
func (v VoteChoice) Valid() bool {
	switch v {
	case VoteFor, VoteAgainst, VoteAbstain:
		return true
	}
	return false
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// VotingWindow represents a proposal's voting period
type VotingWindow struct {
	OpensAt  time.Time
	ClosesAt time.Time
}

// Open reports whether the window contains t
func (w VotingWindow) Open(t time.Time) bool {
	return !t.Before(w.OpensAt) && t.Before(w.ClosesAt)
}
