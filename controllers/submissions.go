package controllers

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/saif727/stellar-token-issuer/internal/apierror"
)

// SubmissionLock admits one ledger-submitting request at a time across controllers.
// Every submission signs with the next sequence number of a shared wallet, so two
// overlapping requests would invalidate each other.
type SubmissionLock struct {
	mu sync.Mutex
}

// NewSubmissionLock creates a new SubmissionLock instance
func NewSubmissionLock() *SubmissionLock {
	return &SubmissionLock{}
}

// acquire takes the lock or answers 409 with busy.
func (l *SubmissionLock) acquire(c *gin.Context, busy string) bool {
	if l.mu.TryLock() {
		return true
	}
	respondError(c, apierror.NewAPIError(apierror.ErrConflict, busy, nil))
	return false
}

func (l *SubmissionLock) release() {
	l.mu.Unlock()
}
